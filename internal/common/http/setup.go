package http

import (
	"net/http"

	"github.com/mkravtsov/taskdeck/internal/common/constants"
	"github.com/mkravtsov/taskdeck/internal/common/httpmetrics"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
)

// BuildBaseHandler wires the ambient middleware chain around the
// application routes: security headers, panic recovery, trace ids,
// request size cap and request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
