package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these instead of inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: component ids, package names, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "built" status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "skipped" status and warnings.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (compiling, linking, aggregating).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators, timestamps).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Build status words shown per component and runtime version.
const (
	StatusBuilt   = "built"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusMissing = "missing"
)

// StatusStyle returns the style for a build status word.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusBuilt:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusMissing:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minComponentColumnWidth keeps status words aligned across lines.
const minComponentColumnWidth = 40

// FormatComponentLine renders "c:<id>/<version>  <status>" with the status
// right-aligned and color-coded.
func FormatComponentLine(id, version, status string) string {
	path := id
	if version != "" {
		path += "/" + version
	}

	padding := minComponentColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("c:") +
		StyleNoun.Render(path) +
		strings.Repeat(" ", padding) +
		StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// Styles groups the styles used by renderers that take no options.
type Styles struct {
	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Noun   lipgloss.Style
	Header lipgloss.Style
}

// GetStyles returns the shared renderer styles.
func GetStyles() Styles {
	return Styles{
		Bold:   lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(ColorDimGray),
		Noun:   StyleNoun,
		Header: lipgloss.NewStyle().Bold(true).Foreground(ColorBlue),
	}
}
