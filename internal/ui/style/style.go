// Package style holds the colors and icons shared by the log handler and the
// status table.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#8B5CF6")
	Muted  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)

// Header is the style of table headers.
var Header = lipgloss.NewStyle().Bold(true).Foreground(Accent)

// Present and Missing color the existence column of the status table.
var (
	Present = lipgloss.NewStyle().Foreground(Green)
	Missing = lipgloss.NewStyle().Foreground(Red)
)
