package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mapban/veto-backend/internal/state"
)

// Relay forwards /api/vmix calls verbatim to the mixer's HTTP API at the
// host/port currently configured in the design document. Body and status
// pass straight through; a dead mixer maps to 502.
func Relay(store *state.Store, zl *zap.Logger) http.HandlerFunc {
	client := &http.Client{}
	return func(w http.ResponseWriter, r *http.Request) {
		design := store.Light().Design
		target := fmt.Sprintf("http://%s:%d/api", design.VmixHost, design.VmixPort)
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to connect to vMix"})
			return
		}

		resp, err := client.Do(req)
		if err != nil {
			zl.Warn("vmix relay failed", zap.String("target", target), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to connect to vMix"})
			return
		}
		defer resp.Body.Close()

		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}
}
