package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/muzaini-app/muzaini-reports/internal/platform/httpx"
)

// Middleware rejects requests without a valid "Authorization: Bearer" token.
func (s *Service) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		if !s.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := s.Authenticate(bearer(r)); err != nil {
				logger.Info("rejected api token", slog.String("path", r.URL.Path), slog.String("remote", r.RemoteAddr))
				w.Header().Set("WWW-Authenticate", `Bearer realm="reports"`)
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
