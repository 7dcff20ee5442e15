// Package types provides shared type definitions for the application.
package types

import (
	"fmt"
	"slices"
)

// View names one of the three preset usage contexts.
type View string

const (
	ViewScreenshot View = "screenshot"
	ViewInputField View = "inputField"
	ViewSelection  View = "selection"
)

// Views lists every usage context in display order.
var Views = []View{ViewScreenshot, ViewInputField, ViewSelection}

// ParseView validates a view name coming from the frontend.
func ParseView(s string) (View, error) {
	v := View(s)
	if slices.Contains(Views, v) {
		return v, nil
	}
	return "", fmt.Errorf("unknown view: %q", s)
}

// Preset is a named prompt template.
type Preset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}
