package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/pipewin/internal/domain/build"
)

// SuccessMsg renders a success line with a check icon.
func (t *Theme) SuccessMsg(msg string) string {
	return fmt.Sprintf("%s %s", t.SuccessStyle.Render(IconCheck), msg)
}

// ErrorMsg renders an error line with an x icon.
func (t *Theme) ErrorMsg(msg string) string {
	return fmt.Sprintf("%s %s", t.ErrorStyle.Render(IconX), t.ErrorStyle.Render(msg))
}

// WarningMsg renders a warning line.
func (t *Theme) WarningMsg(msg string) string {
	return fmt.Sprintf("%s %s", t.WarningStyle.Render(IconWarning), msg)
}

// SentMsg confirms a line written to the command pipe.
func (t *Theme) SentMsg(line, path string) string {
	return fmt.Sprintf("%s %s %s %s",
		t.SuccessStyle.Render(IconPipe),
		t.Highlight.Render(line),
		t.Subtle.Render(IconArrow),
		t.Subtle.Render(path),
	)
}

// KeyValue renders an aligned "key  value" line.
func (t *Theme) KeyValue(icon, key, value string) string {
	return fmt.Sprintf("  %s %s %s",
		lipgloss.NewStyle().Foreground(t.Accent).Render(icon),
		t.Subtle.Width(10).Render(key),
		value,
	)
}

// RenderPaths renders the resolved file locations.
func (t *Theme) RenderPaths(paths [][2]string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, p := range paths {
		sb.WriteString(t.KeyValue(IconConfig, p[0], p[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderVersion renders build information.
func (t *Theme) RenderVersion(info build.Info) string {
	var sb strings.Builder
	sb.WriteString("\n  ")
	sb.WriteString(t.Badge.Render("pipewin"))
	sb.WriteString("\n\n")

	version := info.Version
	if version == "" {
		version = "dev"
	}
	sb.WriteString(t.KeyValue(IconVersion, "version", t.Highlight.Render(version)))
	sb.WriteString("\n")
	if info.Commit != "" {
		sb.WriteString(t.KeyValue(IconGitBranch, "commit", info.Commit))
		sb.WriteString("\n")
	}
	if info.BuildDate != "" {
		sb.WriteString(t.KeyValue(IconCalendar, "built", info.BuildDate))
		sb.WriteString("\n")
	}
	if info.GoVersion != "" {
		sb.WriteString(t.KeyValue(IconGo, "go", info.GoVersion))
		sb.WriteString("\n")
	}
	sb.WriteString(t.KeyValue(IconGithub, "source", t.Subtle.Render(build.RepoURL())))
	sb.WriteString("\n")
	return sb.String()
}
