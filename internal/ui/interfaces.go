package ui

import (
	"trickadex/internal/catalog"
	"trickadex/internal/filter"
	"trickadex/internal/state"
)

// Controller receives user intents that touch persisted state. Calls are
// made off the UI goroutine.
type Controller interface {
	OnToggleLanded(trickID string)
	OnToggleFavorite(trickID string)
	OnRename(name string)
	OnSavePreferences(p state.Preferences)
	OnRandomCombo()
	OnCopy(text string)
	OnEvent(name string, fields map[string]any)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetEngine(e *filter.Engine)
	SetMarks(landed, favorites state.Flags)
	SetUserName(name string)
	SetPreferences(p state.Preferences)
	SetCombo(tricks []catalog.Trick)
	SetFilters(filters []string, search string)
	FlashStatus(msg string)
	PromptName()
}

type Screen int

const (
	ScreenTricks Screen = iota
	ScreenProgress
	ScreenProfile
	ScreenCombo
)

var screenTitles = [...]string{"Tricks", "Progress", "Profile", "Combo"}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenTitles) {
		return "unknown"
	}
	return screenTitles[s]
}

// ScreenByName maps lower-case screen names, as used by demo scenarios.
func ScreenByName(name string) (Screen, bool) {
	switch name {
	case "tricks":
		return ScreenTricks, true
	case "progress":
		return ScreenProgress, true
	case "profile":
		return ScreenProfile, true
	case "combo":
		return ScreenCombo, true
	}
	return ScreenTricks, false
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)
