package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mapban/veto-backend/internal/ledger"
	"github.com/mapban/veto-backend/internal/sequencer"
	"github.com/mapban/veto-backend/internal/state"
)

type Deps struct {
	Store *state.Store
	Vis   *ledger.Visibility
	Log   *ledger.Log
	Seq   *sequencer.Sequencer
	ZL    *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()

	// Controller and overlay may be served from a different origin in
	// split dev/prod setups, so answer CORS on everything.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
	}))
	r.Use(RequestLogger(d.ZL))

	r.Get("/api/state", GetState(d.Store))
	r.Post("/api/state", PostState(d.Store, d.Vis))
	r.Get("/api/maps", GetMaps(d.Store))
	r.Get("/api/vmix", Relay(d.Store, d.ZL))

	r.Post("/api/trigger", TriggerStep(d))
	r.Post("/api/reveal-all", RevealAll(d.Store, d.Vis, d.Log))
	r.Post("/api/hide-all", HideAll(d.Store, d.Vis, d.Log))
	r.Post("/api/reset", ResetAll(d.Store, d.Vis, d.Log))
	r.Get("/api/ledger", GetLedger(d.Vis))

	r.Get("/api/logs", GetLogs(d.Log))
	r.Post("/api/logs/clear", ClearLogs(d.Log))
	r.Get("/ws/logs", LogStream(d.Log))

	r.Get("/healthz", Healthz)
	return r
}
