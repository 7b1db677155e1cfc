package ledger

import (
	"context"
	"slices"
)

type VisMsg interface{ isVisMsg() }

type Toggle struct {
	StepID int
	Reply  chan ToggleResult
}

type SetAll struct {
	StepIDs []int
	Reply   chan []int
}

type ResetVisibility struct{ LastID int }

type GetView struct{ Reply chan View }

type ShutdownVisibility struct{}

func (Toggle) isVisMsg()             {}
func (SetAll) isVisMsg()             {}
func (ResetVisibility) isVisMsg()    {}
func (GetView) isVisMsg()            {}
func (ShutdownVisibility) isVisMsg() {}

type ToggleResult struct {
	Visible bool
	Steps   []int
	Pointer int
}

type View struct {
	Steps   []int `json:"visibleSteps"`
	Pointer int   `json:"currentStepId"`
	LastID  int   `json:"lastStepId"`
}

// Visibility tracks which steps are revealed on the overlay plus the
// advisory turn pointer. The pointer only ever moves forward, and only when
// the step being revealed is the one it rests on.
type Visibility struct {
	inbox   chan VisMsg
	steps   []int
	pointer int
	lastID  int
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewVisibility(parent context.Context, lastID int) *Visibility {
	ctx, cancel := context.WithCancel(parent)
	v := &Visibility{
		inbox:   make(chan VisMsg, 64),
		pointer: 1,
		lastID:  lastID,
		ctx:     ctx,
		cancel:  cancel,
	}
	go v.loop()
	return v
}

func (v *Visibility) Inbox() chan<- VisMsg { return v.inbox }

func (v *Visibility) loop() {
	for {
		select {
		case <-v.ctx.Done():
			v.cancel()
			return

		case m := <-v.inbox:
			switch msg := m.(type) {
			case Toggle:
				msg.Reply <- v.toggle(msg.StepID)

			case SetAll:
				v.steps = append([]int(nil), msg.StepIDs...)
				msg.Reply <- v.snapshot()

			case ResetVisibility:
				v.steps = nil
				v.pointer = 1
				if msg.LastID > 0 {
					v.lastID = msg.LastID
				}

			case GetView:
				msg.Reply <- View{Steps: v.snapshot(), Pointer: v.pointer, LastID: v.lastID}

			case ShutdownVisibility:
				v.cancel()
				return
			}
		}
	}
}

func (v *Visibility) toggle(stepID int) ToggleResult {
	if i := slices.Index(v.steps, stepID); i >= 0 {
		// Hiding never touches the pointer.
		v.steps = slices.Delete(v.steps, i, i+1)
		return ToggleResult{Visible: false, Steps: v.snapshot(), Pointer: v.pointer}
	}

	v.steps = append(v.steps, stepID)
	if stepID == v.pointer && v.pointer < v.lastID {
		v.pointer++
	}
	return ToggleResult{Visible: true, Steps: v.snapshot(), Pointer: v.pointer}
}

func (v *Visibility) snapshot() []int {
	out := make([]int, len(v.steps))
	copy(out, v.steps)
	return out
}

// DoToggle is the synchronous form used by HTTP handlers.
func (v *Visibility) DoToggle(stepID int) ToggleResult {
	reply := make(chan ToggleResult, 1)
	v.inbox <- Toggle{StepID: stepID, Reply: reply}
	return <-reply
}

func (v *Visibility) DoSetAll(stepIDs []int) []int {
	reply := make(chan []int, 1)
	v.inbox <- SetAll{StepIDs: stepIDs, Reply: reply}
	return <-reply
}

func (v *Visibility) Snapshot() View {
	reply := make(chan View, 1)
	v.inbox <- GetView{Reply: reply}
	return <-reply
}
