// Package styles provides the lipgloss styles used by the CLI.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds lipgloss colors and pre-built styles.
type Theme struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Surface lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	Title        lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style

	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
}

// NewTheme creates the default dark theme.
func NewTheme() *Theme {
	t := &Theme{
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#909090"),
		Accent:  lipgloss.Color("#4ade80"),
		Border:  lipgloss.Color("#333333"),
		Surface: lipgloss.Color("#2d2d2d"),
		Error:   lipgloss.Color("#ef4444"),
		Warning: lipgloss.Color("#f59e0b"),
	}
	t.Success = t.Accent
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.Subtle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Highlight = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.Badge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0a0a0b")).
		Background(t.Accent).
		Padding(0, 1)

	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Padding(0, 1)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Padding(0, 1)

	t.TableCell = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)
}
