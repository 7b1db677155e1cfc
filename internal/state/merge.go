package state

import "github.com/mapban/veto-backend/internal/match"

// Patch is a partial write to the shared document. Pointer fields
// distinguish "absent, leave alone" from "present, replace" — visibleSteps
// in particular must be settable to empty (hide all). Steps use the
// non-empty guard instead: an empty array is treated as absent so a client
// racing startup cannot wipe the sequence.
type Patch struct {
	TeamAName    *string          `json:"teamAName"`
	TeamBName    *string          `json:"teamBName"`
	Steps        []match.Step     `json:"steps"`
	Selections   map[int]string   `json:"selections"`
	VisibleSteps *[]int           `json:"visibleSteps"`
	Design       *DesignPatch     `json:"design"`
	Maps         *[]match.MapData `json:"maps"`
}

// DesignPatch mirrors DesignSettings field for field. Design is the one
// sub-document merged a level deep, so a partial design write must not erase
// untouched fields; every application site below is an explicit presence
// check to keep that rule reviewable.
type DesignPatch struct {
	BanColorStart     *string `json:"banColorStart"`
	BanColorEnd       *string `json:"banColorEnd"`
	PickColorStart    *string `json:"pickColorStart"`
	PickColorEnd      *string `json:"pickColorEnd"`
	DeciderColorStart *string `json:"deciderColorStart"`
	DeciderColorEnd   *string `json:"deciderColorEnd"`

	Scale            *float64 `json:"scale"`
	ItemScale        *float64 `json:"itemScale"`
	VerticalGap      *int     `json:"verticalGap"`
	HorizontalOffset *int     `json:"horizontalOffset"`
	VerticalOffset   *int     `json:"verticalOffset"`
	ImageBorderWidth *int     `json:"imageBorderWidth"`
	DeciderOffsetX   *int     `json:"deciderOffsetX"`
	DeciderOffsetY   *int     `json:"deciderOffsetY"`

	FontSize    *int          `json:"fontSize"`
	FontFamily  *string       `json:"fontFamily"`
	CustomFonts *[]CustomFont `json:"customFonts"`
	Language    *string       `json:"language"`

	VmixDelay *int `json:"vmixDelay"`

	VmixHost *string `json:"vmixHost"`
	VmixPort *int    `json:"vmixPort"`
}

// Merge applies a patch to the light document: shallow per top-level field,
// one level deep for design. Maps and MapUpdateTs are the store's business,
// not Merge's. Pure function so the merge rules are testable without the
// actor in the way.
func Merge(doc Document, p Patch) Document {
	if p.TeamAName != nil {
		doc.TeamAName = *p.TeamAName
	}
	if p.TeamBName != nil {
		doc.TeamBName = *p.TeamBName
	}
	if len(p.Steps) > 0 {
		doc.Steps = append([]match.Step(nil), p.Steps...)
	}
	if p.Selections != nil {
		sel := make(map[int]string, len(p.Selections))
		for id, name := range p.Selections {
			sel[id] = name
		}
		doc.Selections = sel
	}
	if p.VisibleSteps != nil {
		doc.VisibleSteps = append([]int{}, *p.VisibleSteps...)
	}
	if p.Design != nil {
		doc.Design = MergeDesign(doc.Design, *p.Design)
	}
	return doc
}

func MergeDesign(d DesignSettings, p DesignPatch) DesignSettings {
	if p.BanColorStart != nil {
		d.BanColorStart = *p.BanColorStart
	}
	if p.BanColorEnd != nil {
		d.BanColorEnd = *p.BanColorEnd
	}
	if p.PickColorStart != nil {
		d.PickColorStart = *p.PickColorStart
	}
	if p.PickColorEnd != nil {
		d.PickColorEnd = *p.PickColorEnd
	}
	if p.DeciderColorStart != nil {
		d.DeciderColorStart = *p.DeciderColorStart
	}
	if p.DeciderColorEnd != nil {
		d.DeciderColorEnd = *p.DeciderColorEnd
	}
	if p.Scale != nil {
		d.Scale = *p.Scale
	}
	if p.ItemScale != nil {
		d.ItemScale = *p.ItemScale
	}
	if p.VerticalGap != nil {
		d.VerticalGap = *p.VerticalGap
	}
	if p.HorizontalOffset != nil {
		d.HorizontalOffset = *p.HorizontalOffset
	}
	if p.VerticalOffset != nil {
		d.VerticalOffset = *p.VerticalOffset
	}
	if p.ImageBorderWidth != nil {
		d.ImageBorderWidth = *p.ImageBorderWidth
	}
	if p.DeciderOffsetX != nil {
		d.DeciderOffsetX = *p.DeciderOffsetX
	}
	if p.DeciderOffsetY != nil {
		d.DeciderOffsetY = *p.DeciderOffsetY
	}
	if p.FontSize != nil {
		d.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		d.FontFamily = *p.FontFamily
	}
	if p.CustomFonts != nil {
		d.CustomFonts = append([]CustomFont{}, *p.CustomFonts...)
	}
	if p.Language != nil {
		d.Language = *p.Language
	}
	if p.VmixDelay != nil {
		d.VmixDelay = *p.VmixDelay
	}
	if p.VmixHost != nil {
		d.VmixHost = *p.VmixHost
	}
	if p.VmixPort != nil {
		d.VmixPort = *p.VmixPort
	}
	return d
}
