// Package style provides the CLI's shared colours, icons and table styles.
package style

import "github.com/charmbracelet/lipgloss"

// Brand colours.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)

// Table styles used by the record view.
var (
	TableHeader = lipgloss.NewStyle().Bold(true).Foreground(Iris).Padding(0, 1)
	TableCell   = lipgloss.NewStyle().Padding(0, 1)
	TableNull   = lipgloss.NewStyle().Foreground(Slate).Padding(0, 1)
	TableBorder = lipgloss.NewStyle().Foreground(Slate)
)
