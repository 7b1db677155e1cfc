package state

import "github.com/mapban/veto-backend/internal/match"

// Document is the shared application state every client reads and writes.
// The maps collection is deliberately absent: it carries embedded images and
// is served and versioned separately so the 500ms overlay poll stays light.
type Document struct {
	TeamAName    string         `json:"teamAName"`
	TeamBName    string         `json:"teamBName"`
	Steps        []match.Step   `json:"steps"`
	Selections   map[int]string `json:"selections"`
	VisibleSteps []int          `json:"visibleSteps"`
	Design       DesignSettings `json:"design"`
	MapUpdateTs  int64          `json:"mapUpdateTs"`
}

type CustomFont struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// DesignSettings is the flat overlay configuration document the operator
// edits wholesale from the settings panel.
type DesignSettings struct {
	BanColorStart     string `json:"banColorStart"`
	BanColorEnd       string `json:"banColorEnd"`
	PickColorStart    string `json:"pickColorStart"`
	PickColorEnd      string `json:"pickColorEnd"`
	DeciderColorStart string `json:"deciderColorStart"`
	DeciderColorEnd   string `json:"deciderColorEnd"`

	Scale            float64 `json:"scale"`
	ItemScale        float64 `json:"itemScale"`
	VerticalGap      int     `json:"verticalGap"`
	HorizontalOffset int     `json:"horizontalOffset"`
	VerticalOffset   int     `json:"verticalOffset"`
	ImageBorderWidth int     `json:"imageBorderWidth"`
	DeciderOffsetX   int     `json:"deciderOffsetX"`
	DeciderOffsetY   int     `json:"deciderOffsetY"`

	FontSize    int          `json:"fontSize"`
	FontFamily  string       `json:"fontFamily"`
	CustomFonts []CustomFont `json:"customFonts"`
	Language    string       `json:"language"`

	VmixDelay int `json:"vmixDelay"`

	VmixHost string `json:"vmixHost"`
	VmixPort int    `json:"vmixPort"`
}

func DefaultDesign() DesignSettings {
	return DesignSettings{
		BanColorStart:     "#880000",
		BanColorEnd:       "#111111",
		PickColorStart:    "#006400",
		PickColorEnd:      "#111111",
		DeciderColorStart: "#ca8a04",
		DeciderColorEnd:   "#111111",
		Scale:             1,
		ItemScale:         1,
		VerticalGap:       12,
		HorizontalOffset:  60,
		VerticalOffset:    180,
		FontSize:          24,
		FontFamily:        "Arial",
		CustomFonts:       []CustomFont{},
		Language:          "EN",
		VmixDelay:         4000,
		VmixHost:          "127.0.0.1",
		VmixPort:          8088,
	}
}

func DefaultDocument() Document {
	return Document{
		TeamAName:    "Team A",
		TeamBName:    "Team B",
		Steps:        match.DefaultSequence(),
		Selections:   map[int]string{},
		VisibleSteps: []int{},
		Design:       DefaultDesign(),
	}
}
