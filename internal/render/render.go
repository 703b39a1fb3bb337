// Package render formats markdown reports for terminal output.
package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word-wrap width used when the terminal width is unknown.
const DefaultWidth = 100

// Style selects a glamour style.
type Style string

// Supported styles.
const (
	StyleAuto  Style = "auto"
	StyleDark  Style = "dark"
	StyleLight Style = "light"
	StyleASCII Style = "ascii"
	StyleNone  Style = "notty"
)

// Terminal renders markdown for display in a terminal, wrapped to width
// columns. A width < 20 uses DefaultWidth.
func Terminal(markdown string, width int, style Style) (string, error) {
	if width < 20 {
		width = DefaultWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(string(style)))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("render: create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return out, nil
}
