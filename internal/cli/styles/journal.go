package styles

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/pipewin/internal/domain/entity"
)

const maxCellWidth = 48

// JournalRenderer renders command journal rows.
type JournalRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewJournalRenderer creates a journal renderer with the given theme.
func NewJournalRenderer(theme *Theme) *JournalRenderer {
	return &JournalRenderer{theme: theme, now: time.Now}
}

// OutcomeStyle picks the color of an outcome.
func (t *Theme) OutcomeStyle(outcome entity.CommandOutcome) lipgloss.Style {
	switch {
	case outcome.Succeeded():
		return t.SuccessStyle
	case outcome == entity.OutcomeHelperReported, outcome == entity.OutcomeDropped:
		return t.WarningStyle
	default:
		return t.ErrorStyle
	}
}

// Render renders records as a table, newest first as given.
func (r *JournalRenderer) Render(records []*entity.CommandRecord) string {
	if len(records) == 0 {
		return r.theme.Subtle.Render("  No commands recorded yet")
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers("WHEN", "OUTCOME", "WINDOW", "LINE", "DETAIL", "TOOK").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.TableHeader
			}
			return r.theme.TableCell
		})

	for _, rec := range records {
		tbl.Row(
			relativeTime(r.now(), rec.ReceivedAt),
			r.theme.OutcomeStyle(rec.Outcome).Render(string(rec.Outcome)),
			dash(string(rec.WindowID)),
			dash(truncate(rec.Line, maxCellWidth)),
			dash(truncate(firstLine(rec.Detail), maxCellWidth)),
			formatDuration(rec.Duration),
		)
	}
	return tbl.String()
}

// RenderCounts renders per-outcome totals, most frequent first.
func (r *JournalRenderer) RenderCounts(counts map[entity.CommandOutcome]int64) string {
	if len(counts) == 0 {
		return r.theme.Subtle.Render("  No commands recorded yet")
	}

	outcomes := make([]entity.CommandOutcome, 0, len(counts))
	var total int64
	for outcome, n := range counts {
		outcomes = append(outcomes, outcome)
		total += n
	}
	sort.Slice(outcomes, func(i, j int) bool {
		if counts[outcomes[i]] == counts[outcomes[j]] {
			return outcomes[i] < outcomes[j]
		}
		return counts[outcomes[i]] > counts[outcomes[j]]
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s %s\n\n",
		lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconDatabase),
		r.theme.Title.Render(fmt.Sprintf("%d commands", total)),
	)
	for _, outcome := range outcomes {
		fmt.Fprintf(&sb, "  %-18s %s\n",
			r.theme.OutcomeStyle(outcome).Render(string(outcome)),
			r.theme.BadgeMuted.Render(fmt.Sprintf("%d", counts[outcome])),
		)
	}
	return sb.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

// relativeTime formats tm relative to now.
func relativeTime(now, tm time.Time) string {
	diff := now.Sub(tm)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return tm.Format("Jan 2")
	}
}
