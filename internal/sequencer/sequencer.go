// Package sequencer owns the ordered command sequence behind the operator's
// GO action: five immediate mixer commands, then a delayed two-command hide.
package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mapban/veto-backend/internal/ledger"
	"github.com/mapban/veto-backend/internal/match"
)

// Channel issues one named command to the mixer and reports success.
type Channel interface {
	Send(ctx context.Context, function string, params map[string]string) bool
}

// TitleInput is the mixer title graphic holding one text slot per step.
const TitleInput = "PIC_BAN.gtzip"

// Overlay layer 2 carries the map video, layer 3 the phase-indicator image.
// Separate layers so the indicator's timing is decoupled from the video fade.
const (
	fnSetText  = "SetText"
	fnRestart  = "Restart"
	fnPlay     = "Play"
	fnVideoIn  = "OverlayInput2In"
	fnVideoOut = "OverlayInput2Out"
	fnPhaseIn  = "OverlayInput3In"
	fnPhaseOut = "OverlayInput3Out"
)

type Sequencer struct {
	ch  Channel
	log *ledger.Log
	zl  *zap.Logger

	mu       sync.Mutex
	sessions map[int]*time.Timer

	// after is time.AfterFunc unless a test swaps in a manual clock.
	after func(d time.Duration, f func()) *time.Timer
}

func New(ch Channel, log *ledger.Log, zl *zap.Logger) *Sequencer {
	return &Sequencer{
		ch:       ch,
		log:      log,
		zl:       zl,
		sessions: make(map[int]*time.Timer),
		after:    time.AfterFunc,
	}
}

// Trigger runs the reveal for one step. The commands are strictly ordered
// (text must be set before the layer showing it comes in) but best effort:
// a failed command never stops the rest. The hide runs delay later without
// blocking the caller and without re-checking anything; retriggering the
// same step inside the delay window races the old timer on purpose (the
// original behavior, kept).
func (s *Sequencer) Trigger(ctx context.Context, step match.Step, m match.MapData, delay time.Duration) {
	if m.Name == "" && m.VideoInput == "" {
		s.log.Error("Trigger refused: no map resolved for step "+step.Slot(), nil)
		return
	}

	videoRef := m.VideoRef()
	phaseRef := match.PhaseAsset(step.Kind)
	textField := fmt.Sprintf("TextBlock%s.Text", step.Slot())

	s.log.Info(fmt.Sprintf(">>> START REVEAL SEQUENCE: %s (Video: %s)", m.Name, videoRef), nil)

	s.ch.Send(ctx, fnSetText, map[string]string{
		"Input":        TitleInput,
		"SelectedName": textField,
		"Value":        videoRef,
	})
	s.ch.Send(ctx, fnRestart, map[string]string{"Input": videoRef})
	s.ch.Send(ctx, fnPlay, map[string]string{"Input": videoRef})
	s.ch.Send(ctx, fnVideoIn, map[string]string{"Input": videoRef})
	s.ch.Send(ctx, fnPhaseIn, map[string]string{"Input": phaseRef})

	s.zl.Info("reveal shown",
		zap.Int("step", step.ID),
		zap.String("map", m.Name),
		zap.Duration("hideAfter", delay))

	timer := s.after(delay, func() {
		s.hide(step.ID, videoRef, phaseRef)
	})

	s.mu.Lock()
	s.sessions[step.ID] = timer
	s.mu.Unlock()
}

func (s *Sequencer) hide(stepID int, videoRef, phaseRef string) {
	ctx := context.Background()
	s.ch.Send(ctx, fnVideoOut, map[string]string{"Input": videoRef})
	s.ch.Send(ctx, fnPhaseOut, map[string]string{"Input": phaseRef})
	s.zl.Info("reveal hidden", zap.Int("step", stepID))

	s.mu.Lock()
	delete(s.sessions, stepID)
	s.mu.Unlock()
}

// CancelHide stops a step's outstanding hide timer. Nothing in the trigger
// path calls this — letting the old timer fire is the shipped behavior — but
// the handle exists so cancel-on-retrigger stays a one-line change.
func (s *Sequencer) CancelHide(stepID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer, ok := s.sessions[stepID]
	if !ok {
		return false
	}
	delete(s.sessions, stepID)
	return timer.Stop()
}

// Pending reports how many hide timers are still outstanding.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
