package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mkravtsov/taskdeck/internal/common/constants"
	commonerrors "github.com/mkravtsov/taskdeck/internal/common/errors"
	"github.com/mkravtsov/taskdeck/internal/common/httpmetrics"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	"github.com/mkravtsov/taskdeck/internal/observability/metrics"
)

// HandleError maps domain errors to their HTTP envelope and hides
// everything else behind a generic 500. Internal details never reach the
// response body.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		handleDomainError(w, r, domainErr, traceID, log)
		return
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}
	log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeUnknown, "internal server error", traceID)
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError, traceID string, log *logger.Logger) {
	status := err.HTTPStatus()

	if log.ShouldLog(logger.DEBUG) {
		log.WithFields(r.Context(), logger.Fields{
			"error_code": err.Code(),
			"category":   string(err.Category()),
			"status":     status,
			"action":     "domain_error",
		}).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, err.Code(), err.Message(), traceID)
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
