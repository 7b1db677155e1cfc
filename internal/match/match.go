package match

import "strconv"

type Team string

const (
	TeamA    Team = "Team A"
	TeamB    Team = "Team B"
	TeamNone Team = "Decider"
)

type Kind string

const (
	KindBan     Kind = "BAN"
	KindPick    Kind = "PICK"
	KindDecider Kind = "DECIDER"
)

// Step is one entry of the ban/pick sequence. The JSON shape is the wire
// contract shared with the controller and overlay views.
type Step struct {
	ID       int    `json:"id"`
	CustomID string `json:"customId,omitempty"`
	Team     Team   `json:"team"`
	Kind     Kind   `json:"type"`
}

// Slot is the label the mixer knows this step by: the operator-assigned
// CustomID when set, otherwise the sequence position.
func (s Step) Slot() string {
	if s.CustomID != "" {
		return s.CustomID
	}
	return strconv.Itoa(s.ID)
}

// ToggleKind flips a step between BAN and PICK. DECIDER never changes.
func ToggleKind(s Step) Step {
	switch s.Kind {
	case KindBan:
		s.Kind = KindPick
	case KindPick:
		s.Kind = KindBan
	}
	return s
}

// MapData is a selectable map asset. Name is the only stable cross-reference
// key; selections point at maps by name, so renaming a map orphans them.
type MapData struct {
	Name          string `json:"name"`
	VideoInput    string `json:"videoInput"`
	ImageFile     string `json:"imageFile"`
	ImageFileName string `json:"imageFileName,omitempty"`
}

// VideoRef is the input name the mixer addresses the map's video layer by.
func (m MapData) VideoRef() string {
	if m.VideoInput != "" {
		return m.VideoInput
	}
	return m.Name + ".mp4"
}

// phaseAssets maps a step kind to the phase-indicator image input loaded in
// the mixer. Keeping this a table avoids kind branches spreading through the
// sequencer.
var phaseAssets = map[Kind]string{
	KindBan:     "BAN.png",
	KindPick:    "PICK.png",
	KindDecider: "DECIDER.png",
}

func PhaseAsset(k Kind) string {
	return phaseAssets[k]
}
