package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mapban/veto-backend/internal/ledger"
	"github.com/mapban/veto-backend/internal/state"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func GetState(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Light())
	}
}

func GetMaps(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Assets())
	}
}

// PostState merges a partial document. The body is decoded in full before
// anything is applied, so a malformed payload changes nothing.
func PostState(store *state.Store, vis *ledger.Visibility) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p state.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "invalid JSON body",
			})
			return
		}

		res := store.Apply(p)
		if p.VisibleSteps != nil {
			// Keep the pointer ledger in step with what the client pushed.
			vis.DoSetAll(*p.VisibleSteps)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"mapUpdateTs": res.MapUpdateTs,
		})
	}
}

func RevealAll(store *state.Store, vis *ledger.Visibility, lg *ledger.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := store.Light()
		ids := make([]int, 0, len(doc.Steps))
		for _, s := range doc.Steps {
			ids = append(ids, s.ID)
		}
		vis.DoSetAll(ids)
		store.Apply(state.Patch{VisibleSteps: &ids})
		lg.Info("Show all", nil)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "visibleSteps": ids})
	}
}

func HideAll(store *state.Store, vis *ledger.Visibility, lg *ledger.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		none := []int{}
		vis.DoSetAll(none)
		store.Apply(state.Patch{VisibleSteps: &none})
		lg.Info("Hide all", nil)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "visibleSteps": none})
	}
}

// ResetAll restores the canonical sequence and clears selections and
// visibility. Hide timers already scheduled keep running; their commands
// land against hidden layers.
func ResetAll(store *state.Store, vis *ledger.Visibility, lg *ledger.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := store.Reset()
		lastID := 0
		if n := len(doc.Steps); n > 0 {
			lastID = doc.Steps[n-1].ID
		}
		vis.Inbox() <- ledger.ResetVisibility{LastID: lastID}
		lg.Info("System Reset", "All states cleared")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func GetLedger(vis *ledger.Visibility) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, vis.Snapshot())
	}
}

func GetLogs(lg *ledger.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := lg.Snapshot()
		if entries == nil {
			entries = []ledger.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func ClearLogs(lg *ledger.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lg.Inbox() <- ledger.Clear{}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
