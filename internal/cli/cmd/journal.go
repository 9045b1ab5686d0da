package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/pipewin/internal/cli/styles"
	"github.com/bnema/pipewin/internal/domain/entity"
)

var (
	journalLimit   int
	journalOutcome string
	journalStats   bool
)

const defaultJournalLimit = 20

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent command outcomes",
	Long: `List the most recent commands processed by pipewin, newest first.

Examples:
  pipewin journal                      # Last 20 commands
  pipewin journal -n 100               # Last 100 commands
  pipewin journal --outcome timeout    # Only helper timeouts
  pipewin journal --stats              # Totals per outcome`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		journal, err := a.Journal()
		if err != nil {
			return err
		}
		return showJournal(a.Ctx(), cmd.OutOrStdout(), journal, styles.NewJournalRenderer(a.Theme))
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", defaultJournalLimit, "number of commands to show")
	journalCmd.Flags().StringVar(&journalOutcome, "outcome", "", "only show one outcome ("+outcomeNames()+")")
	journalCmd.Flags().BoolVar(&journalStats, "stats", false, "show totals per outcome")
}

type journalReader interface {
	Recent(ctx context.Context, limit int, outcome entity.CommandOutcome) ([]*entity.CommandRecord, error)
	CountByOutcome(ctx context.Context) (map[entity.CommandOutcome]int64, error)
}

func showJournal(ctx context.Context, w io.Writer, journal journalReader, r *styles.JournalRenderer) error {
	if journalStats {
		counts, err := journal.CountByOutcome(ctx)
		if err != nil {
			return fmt.Errorf("count journal entries: %w", err)
		}
		fmt.Fprintln(w, r.RenderCounts(counts))
		return nil
	}

	outcome, err := parseOutcome(journalOutcome)
	if err != nil {
		return err
	}
	if journalLimit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", journalLimit)
	}

	records, err := journal.Recent(ctx, journalLimit, outcome)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	fmt.Fprintln(w, r.Render(records))
	return nil
}

func parseOutcome(name string) (entity.CommandOutcome, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", nil
	}
	for _, o := range entity.Outcomes() {
		if string(o) == name {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown outcome %q, expected one of: %s", name, outcomeNames())
}

func outcomeNames() string {
	outcomes := entity.Outcomes()
	names := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		names = append(names, string(o))
	}
	return strings.Join(names, ", ")
}
