package types

import (
	"slices"
	"strconv"
	"strings"
)

// DefaultNextPresetID seeds the preset id counter.
const DefaultNextPresetID = 1

const presetIDPrefix = "preset-"

// PresetCollection holds one independent ordered list per view.
type PresetCollection struct {
	Screenshot []Preset `json:"screenshot"`
	InputField []Preset `json:"inputField"`
	Selection  []Preset `json:"selection"`
}

// ActivePresetIDs references the selected preset of each view by id.
// A nil or dangling id means no active preset.
type ActivePresetIDs struct {
	Screenshot *string `json:"screenshot"`
	InputField *string `json:"inputField"`
	Selection  *string `json:"selection"`
}

// Settings is passed through to the settings UI untouched.
type Settings struct {
	AutoOpenOnStart bool   `json:"autoOpenOnStart"`
	OpenAIAPIKey    string `json:"openaiApiKey"`
}

// Hotkeys is passed through to the hotkey UI untouched.
type Hotkeys struct {
	Screenshot string `json:"screenshot"`
}

// PersistedState is the document stored in the presets file and broadcast
// to every UI surface.
type PersistedState struct {
	Presets         PresetCollection `json:"presets"`
	NextPresetID    int              `json:"nextPresetId"`
	ActivePresetIDs ActivePresetIDs  `json:"activePresetIds"`
	Settings        *Settings        `json:"settings"`
	Hotkeys         *Hotkeys         `json:"hotkeys"`
}

// DefaultState returns the state used before anything has been saved.
func DefaultState() PersistedState {
	return PersistedState{
		Presets: PresetCollection{
			Screenshot: []Preset{},
			InputField: []Preset{},
			Selection:  []Preset{},
		},
		NextPresetID: DefaultNextPresetID,
	}
}

// Clone returns a deep copy. Nil lists stay nil so a clone compares equal to
// its source.
func (s PersistedState) Clone() PersistedState {
	out := s
	out.Presets = PresetCollection{
		Screenshot: slices.Clone(s.Presets.Screenshot),
		InputField: slices.Clone(s.Presets.InputField),
		Selection:  slices.Clone(s.Presets.Selection),
	}
	out.ActivePresetIDs = ActivePresetIDs{
		Screenshot: cloneString(s.ActivePresetIDs.Screenshot),
		InputField: cloneString(s.ActivePresetIDs.InputField),
		Selection:  cloneString(s.ActivePresetIDs.Selection),
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}
	if s.Hotkeys != nil {
		hotkeys := *s.Hotkeys
		out.Hotkeys = &hotkeys
	}
	return out
}

// Normalize replaces nil lists with empty ones and repairs a non-positive
// id counter from the ids already in use.
func (s *PersistedState) Normalize() {
	for _, v := range Views {
		if l := s.list(v); *l == nil {
			*l = []Preset{}
		}
	}
	if s.NextPresetID <= 0 {
		s.NextPresetID = s.deriveNextPresetID()
	}
}

// List returns the presets of a view.
func (s *PersistedState) List(v View) []Preset {
	return *s.list(v)
}

// ActivePreset resolves the active preset of a view. Dangling ids resolve to
// no preset.
func (s *PersistedState) ActivePreset(v View) (Preset, bool) {
	id := *s.active(v)
	if id == nil {
		return Preset{}, false
	}
	idx := slices.IndexFunc(s.List(v), func(p Preset) bool { return p.ID == *id })
	if idx == -1 {
		return Preset{}, false
	}
	return s.List(v)[idx], true
}

// SetActive marks the preset with the given id as active. An empty id clears
// the selection.
func (s *PersistedState) SetActive(v View, id string) {
	if id == "" {
		*s.active(v) = nil
		return
	}
	*s.active(v) = &id
}

// NewPreset allocates the next "preset-N" id, appends an empty preset to the
// view and makes it active.
func (s *PersistedState) NewPreset(v View) Preset {
	if s.NextPresetID <= 0 {
		s.NextPresetID = s.deriveNextPresetID()
	}
	n := s.NextPresetID
	p := Preset{
		ID:   presetIDPrefix + strconv.Itoa(n),
		Name: "Preset " + strconv.Itoa(n),
	}
	l := s.list(v)
	*l = append(*l, p)
	s.SetActive(v, p.ID)
	s.NextPresetID = n + 1
	return p
}

func (s *PersistedState) deriveNextPresetID() int {
	highest := 0
	for _, v := range Views {
		for _, p := range s.List(v) {
			n, err := strconv.Atoi(strings.TrimPrefix(p.ID, presetIDPrefix))
			if err != nil || !strings.HasPrefix(p.ID, presetIDPrefix) {
				continue
			}
			highest = max(highest, n)
		}
	}
	return highest + 1
}

func (s *PersistedState) list(v View) *[]Preset {
	switch v {
	case ViewInputField:
		return &s.Presets.InputField
	case ViewSelection:
		return &s.Presets.Selection
	default:
		return &s.Presets.Screenshot
	}
}

func (s *PersistedState) active(v View) **string {
	switch v {
	case ViewInputField:
		return &s.ActivePresetIDs.InputField
	case ViewSelection:
		return &s.ActivePresetIDs.Selection
	default:
		return &s.ActivePresetIDs.Screenshot
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

// PresetSelection is emitted when a preset is picked from the floating panel.
type PresetSelection struct {
	View     View    `json:"view"`
	PresetID *string `json:"presetId"`
}
