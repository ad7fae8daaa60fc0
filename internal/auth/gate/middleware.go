package gate

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mkravtsov/taskdeck/internal/auth/token"
	commonhttp "github.com/mkravtsov/taskdeck/internal/common/http"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	userdomain "github.com/mkravtsov/taskdeck/internal/user/domain"
	userrepo "github.com/mkravtsov/taskdeck/internal/user/repository"
)

type contextKey string

const userKey contextKey = "authenticated_user"

// Middleware is the per-request access gate: it validates the bearer token
// and resolves the subject through the user directory. A token whose
// subject no longer exists is rejected with the same response as an
// invalid token, so the gate never leaks whether an account exists.
func Middleware(tokens *token.Issuer, users userrepo.Repository, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("auth gate rejected path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", "")
				return
			}

			username, err := tokens.Validate(strings.TrimPrefix(raw, "Bearer "))
			if err != nil {
				log.Warnf("auth gate rejected path=%s: %v", r.URL.Path, err)
				writeUnauthenticated(w)
				return
			}

			user, err := users.FindByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, userrepo.ErrUserNotFound) {
					log.Warnf("auth gate rejected path=%s: subject no longer exists", r.URL.Path)
					writeUnauthenticated(w)
					return
				}
				log.Errorf("auth gate failed path=%s: user lookup error: %v", r.URL.Path, err)
				commonhttp.WriteErrorEnvelope(w, http.StatusInternalServerError, commonhttp.CodeUnknown, "internal server error", "")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
}

// FromContext returns the identity resolved by the gate; handlers use its
// id as the owner scope for every repository call.
func FromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}
