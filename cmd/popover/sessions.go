package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popover/internal/journal"
)

var sessionsOpts struct {
	limit  int
	prune  int
	output string
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recorded hover sessions",
	Long: `Show the hover sessions recorded by the demo, newest first.

Each entry covers one open cycle: when the popover opened and closed, why
it closed, and how many pointer samples, debounced checks and close
requests the tracker saw.

Examples:
  # Last 20 sessions
  popover sessions

  # Everything as JSON
  popover sessions --limit 0 --output json

  # Keep only the newest 100 entries
  popover sessions --prune 100`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().IntVarP(&sessionsOpts.limit, "limit", "n", 20,
		"Number of sessions to show (0 = all)")
	sessionsCmd.Flags().IntVar(&sessionsOpts.prune, "prune", -1,
		"Keep only the newest N sessions and exit")
	sessionsCmd.Flags().StringVarP(&sessionsOpts.output, "output", "o", "plain",
		"Output format (plain, json, yaml)")
}

// sessionList renders journal entries as a table.
type sessionList []journal.Entry

// PlainText implements output.Plain.
func (l sessionList) PlainText() string {
	if len(l) == 0 {
		return "no sessions recorded"
	}
	var b strings.Builder
	for _, e := range l {
		fmt.Fprintf(&b, "%s  %-20s %-13s %s, open %s, %s samples, %d checks\n",
			e.Session,
			e.Scene+"/"+e.Anchor,
			e.Reason,
			humanize.Time(e.OpenedAt),
			e.Duration().Round(10*time.Millisecond),
			humanize.Comma(int64(e.Samples)),
			e.Checks,
		)
	}
	return b.String()
}

func runSessions(cmd *cobra.Command, args []string) error {
	formatter, err := createFormatter(sessionsOpts.output, "")
	if err != nil {
		return err
	}

	j, err := journal.Open(getConfig().JournalPath())
	if err != nil {
		return fmt.Errorf("failed to open session journal: %w", err)
	}
	defer j.Close()

	if sessionsOpts.prune >= 0 {
		removed, err := j.Prune(sessionsOpts.prune)
		if err != nil {
			return fmt.Errorf("failed to prune session journal: %w", err)
		}
		fmt.Printf("Pruned %s sessions\n", humanize.Comma(int64(removed)))
		return nil
	}

	entries, err := j.Load()
	if err != nil {
		return fmt.Errorf("failed to read session journal: %w", err)
	}
	return formatter.Format(os.Stdout, sessionList(journal.Recent(entries, sessionsOpts.limit)))
}
