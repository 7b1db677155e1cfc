package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RequestLogger logs API traffic the way the old relay did its "[API]"
// lines. Static and websocket paths stay quiet.
func RequestLogger(zl *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api") {
				zl.Info("api",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
		})
	}
}
