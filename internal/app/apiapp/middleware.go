package apiapp

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

const requestTimeout = 60 * time.Second

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(requestLogger(log))
}

// AuthMiddleware validates the bearer token against the jwt secret and
// the redis session, then attaches the caller's identity to the request
// context. Handlers behind it can rely on IdentityFromContext.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService == nil {
				httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
					Code:    "AUTH_SERVICE_UNAVAILABLE",
					Message: "auth service is unavailable",
				})
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeUnauthorizedMW(w, "missing bearer token")
				return
			}

			claims, err := authService.ValidateAccessToken(r.Context(), token)
			if err != nil {
				if log != nil {
					log.Debug("access token rejected",
						zap.String("request_id", chimiddleware.GetReqID(r.Context())),
						zap.Error(err),
					)
				}
				writeUnauthorizedMW(w, "invalid access token")
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID: claims.UserID,
				SID:    claims.SID,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorizedMW(w http.ResponseWriter, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
		Code:    "UNAUTHORIZED",
		Message: message,
	})
}

// bearerToken pulls the token out of the Authorization header. Returns
// an empty string when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	value := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(value) <= len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if log == nil {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Info("http request",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
