package httpapi

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/mapban/veto-backend/internal/state"
)

type triggerRequest struct {
	StepID int `json:"stepId"`
}

type triggerResponse struct {
	Success       bool   `json:"success"`
	Visible       bool   `json:"visible"`
	CurrentStepID int    `json:"currentStepId"`
	VisibleSteps  []int  `json:"visibleSteps"`
	Error         string `json:"error,omitempty"`
}

// TriggerStep is the GO action. Revealing a hidden step runs the mixer
// sequence and flips it visible; hitting an already-visible step only hides
// it on the overlay, the mixer is left alone. The selection precondition is
// checked here so the sequencer never sees an unresolved map.
func TriggerStep(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req triggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, triggerResponse{Error: "invalid JSON body"})
			return
		}

		res := d.Store.Resolve(req.StepID)
		if !res.StepFound {
			writeJSON(w, http.StatusNotFound, triggerResponse{Error: "unknown step"})
			return
		}

		view := d.Vis.Snapshot()
		if !slices.Contains(view.Steps, req.StepID) {
			if res.MapName == "" {
				writeJSON(w, http.StatusBadRequest, triggerResponse{Error: "Please select a map first."})
				return
			}
			if res.MapFound {
				delay := time.Duration(res.DelayMs) * time.Millisecond
				d.Seq.Trigger(r.Context(), res.Step, res.Map, delay)
			} else {
				// Selection points at a renamed or deleted map. The overlay
				// still toggles; the mixer gets nothing it could resolve.
				d.Log.Error("Map asset missing: "+res.MapName, nil)
			}
		}

		result := d.Vis.DoToggle(req.StepID)
		d.Store.Apply(state.Patch{VisibleSteps: &result.Steps})

		writeJSON(w, http.StatusOK, triggerResponse{
			Success:       true,
			Visible:       result.Visible,
			CurrentStepID: result.Pointer,
			VisibleSteps:  result.Steps,
		})
	}
}
