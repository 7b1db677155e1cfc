package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mapban/veto-backend/internal/ledger"
	"github.com/mapban/veto-backend/internal/match"
	"github.com/mapban/veto-backend/internal/sequencer"
	"github.com/mapban/veto-backend/internal/state"
	"github.com/mapban/veto-backend/internal/vmix"
)

type testApp struct {
	srv       *httptest.Server
	deps      Deps
	relayHits *atomic.Int64
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hits := &atomic.Int64{}
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(relay.Close)

	doc := state.DefaultDocument()
	store := state.NewStore(ctx, doc)
	lg := ledger.NewLog(ctx)
	vis := ledger.NewVisibility(ctx, 23)
	seq := sequencer.New(vmix.NewClient(relay.URL, lg, zap.NewNop()), lg, zap.NewNop())

	deps := Deps{Store: store, Vis: vis, Log: lg, Seq: seq, ZL: zap.NewNop()}
	srv := httptest.NewServer(SetupRoutes(deps))
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, deps: deps, relayHits: hits}
}

func (a *testApp) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(a.srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func (a *testApp) getJSON(t *testing.T, path string, out any) {
	t.Helper()
	resp, err := http.Get(a.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func countEntries(entries []ledger.Entry, t ledger.EntryType) int {
	n := 0
	for _, e := range entries {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestStateReadWrite(t *testing.T) {
	app := newTestApp(t)

	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.Equal(t, "Team A", doc.TeamAName)
	require.Len(t, doc.Steps, 23)
	require.Zero(t, doc.MapUpdateTs)

	resp := app.post(t, "/api/state", map[string]any{
		"teamAName": "Navi",
		"design":    map[string]any{"fontSize": 40},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	app.getJSON(t, "/api/state", &doc)
	require.Equal(t, "Navi", doc.TeamAName)
	require.Equal(t, 40, doc.Design.FontSize)
	// Deep merge: untouched design fields survive a partial patch.
	require.Equal(t, "Arial", doc.Design.FontFamily)
	require.Equal(t, "#880000", doc.Design.BanColorStart)
}

func TestStateRejectsMalformedJSON(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Post(app.srv.URL+"/api/state", "application/json", bytes.NewReader([]byte(`{"teamAName": `)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Nothing may have been applied.
	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.Equal(t, "Team A", doc.TeamAName)
}

func TestMapsReplaceAndVersionBump(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/state", map[string]any{
		"maps": []match.MapData{{Name: "Inferno", VideoInput: "de_inferno.mp4", ImageFile: "data:image/png;base64,AA"}},
	})
	defer resp.Body.Close()

	var res struct {
		Success     bool  `json:"success"`
		MapUpdateTs int64 `json:"mapUpdateTs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.True(t, res.Success)
	require.Positive(t, res.MapUpdateTs)

	var maps []match.MapData
	app.getJSON(t, "/api/maps", &maps)
	require.Len(t, maps, 1)
	require.Equal(t, "Inferno", maps[0].Name)

	// The light document exposes the version but not the collection.
	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.Equal(t, res.MapUpdateTs, doc.MapUpdateTs)
}

func TestTriggerRevealFlow(t *testing.T) {
	app := newTestApp(t)

	maps := []match.MapData{{Name: "Inferno", VideoInput: "de_inferno.mp4"}}
	app.deps.Store.Apply(state.Patch{
		Maps:       &maps,
		Selections: map[int]string{5: "Inferno"},
		Design:     &state.DesignPatch{VmixDelay: ptr(250)},
	})

	// Walk the pointer to step 5 the way a running match would.
	for id := 1; id <= 4; id++ {
		app.deps.Vis.DoToggle(id)
	}

	resp := app.post(t, "/api/trigger", map[string]any{"stepId": 5})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr struct {
		Success       bool  `json:"success"`
		Visible       bool  `json:"visible"`
		CurrentStepID int   `json:"currentStepId"`
		VisibleSteps  []int `json:"visibleSteps"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	require.True(t, tr.Success)
	require.True(t, tr.Visible)
	require.Equal(t, 6, tr.CurrentStepID, "pointer advances past the revealed step")
	require.Contains(t, tr.VisibleSteps, 5)

	// Visibility landed in the shared document for the overlay poller.
	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.Contains(t, doc.VisibleSteps, 5)

	entries := app.deps.Log.Snapshot()
	require.Equal(t, 5, countEntries(entries, ledger.EntryRequest), "five immediate commands")
	require.Equal(t, 5, countEntries(entries, ledger.EntrySuccess))

	// The delayed hide pair fires on its own.
	require.Eventually(t, func() bool {
		return countEntries(app.deps.Log.Snapshot(), ledger.EntryRequest) == 7
	}, time.Second, 10*time.Millisecond, "two overlay-out commands after the delay")

	entries = app.deps.Log.Snapshot()
	var tail []string
	for _, e := range entries {
		if e.Type == ledger.EntryRequest {
			tail = append(tail, e.Message)
		}
	}
	require.Equal(t, "Sending: OverlayInput2Out", tail[5])
	require.Equal(t, "Sending: OverlayInput3Out", tail[6])
}

func TestTriggerWithoutSelectionIsRefused(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/trigger", map[string]any{"stepId": 7})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Zero(t, app.relayHits.Load(), "no mixer traffic without a selection")
	require.Empty(t, app.deps.Log.Snapshot())

	view := app.deps.Vis.Snapshot()
	require.Empty(t, view.Steps)
}

func TestTriggerUnknownStep(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/trigger", map[string]any{"stepId": 99})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTriggerToggleOffSkipsMixer(t *testing.T) {
	app := newTestApp(t)

	maps := []match.MapData{{Name: "Nuke", VideoInput: "de_nuke.mp4"}}
	app.deps.Store.Apply(state.Patch{
		Maps:       &maps,
		Selections: map[int]string{2: "Nuke"},
		// Long delay so the hide timer stays out of the hit count.
		Design: &state.DesignPatch{VmixDelay: ptr(60000)},
	})

	resp := app.post(t, "/api/trigger", map[string]any{"stepId": 2})
	resp.Body.Close()
	require.Equal(t, int64(5), app.relayHits.Load())

	resp = app.post(t, "/api/trigger", map[string]any{"stepId": 2})
	defer resp.Body.Close()

	var tr struct {
		Visible bool `json:"visible"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	require.False(t, tr.Visible)
	require.Equal(t, int64(5), app.relayHits.Load(), "hiding is overlay-only")

	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.NotContains(t, doc.VisibleSteps, 2)
}

func TestRevealAllHideAll(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/reveal-all", nil)
	resp.Body.Close()

	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.Len(t, doc.VisibleSteps, 23)
	require.Zero(t, app.relayHits.Load(), "bulk visibility never touches the mixer")

	resp = app.post(t, "/api/hide-all", nil)
	resp.Body.Close()

	app.getJSON(t, "/api/state", &doc)
	require.Empty(t, doc.VisibleSteps)
}

func TestResetRestoresDefaults(t *testing.T) {
	app := newTestApp(t)

	app.deps.Store.Apply(state.Patch{Selections: map[int]string{1: "Mirage"}})
	app.deps.Vis.DoToggle(1)

	resp := app.post(t, "/api/reset", nil)
	resp.Body.Close()

	var doc state.Document
	app.getJSON(t, "/api/state", &doc)
	require.Empty(t, doc.Selections)
	require.Empty(t, doc.VisibleSteps)
	require.Len(t, doc.Steps, 23)

	view := app.deps.Vis.Snapshot()
	require.Equal(t, 1, view.Pointer)
	require.Empty(t, view.Steps)

	entries := app.deps.Log.Snapshot()
	require.NotEmpty(t, entries)
	require.Equal(t, "System Reset", entries[len(entries)-1].Message)
}

func TestRelayForwardsToMixer(t *testing.T) {
	app := newTestApp(t)

	var gotPath atomic.Value
	mixer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.String())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	t.Cleanup(mixer.Close)

	u, err := url.Parse(mixer.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	host := u.Hostname()
	app.deps.Store.Apply(state.Patch{Design: &state.DesignPatch{
		VmixHost: &host,
		VmixPort: &port,
	}})

	resp, err := http.Get(app.srv.URL + "/api/vmix?Function=Play&Input=de_inferno.mp4")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/api?Function=Play&Input=de_inferno.mp4", gotPath.Load().(string))
}

func TestRelayMixerDown(t *testing.T) {
	app := newTestApp(t)

	// Point at a closed port.
	mixer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, _ := url.Parse(mixer.URL)
	port, _ := strconv.Atoi(u.Port())
	mixer.Close()

	host := u.Hostname()
	app.deps.Store.Apply(state.Patch{Design: &state.DesignPatch{
		VmixHost: &host,
		VmixPort: &port,
	}})

	resp, err := http.Get(app.srv.URL + "/api/vmix?Function=Play")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestLogsEndpointAndClear(t *testing.T) {
	app := newTestApp(t)
	app.deps.Log.Info("Images Uploaded", "3 images processed")

	var entries []ledger.Entry
	app.getJSON(t, "/api/logs", &entries)
	require.Len(t, entries, 1)
	require.Equal(t, ledger.EntryInfo, entries[0].Type)

	resp := app.post(t, "/api/logs/clear", nil)
	resp.Body.Close()

	app.getJSON(t, "/api/logs", &entries)
	require.Empty(t, entries)
}

func ptr[T any](v T) *T { return &v }
