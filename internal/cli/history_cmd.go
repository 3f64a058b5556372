package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/service"
)

func newHistoryCmd(app *App) *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed focus sessions and breaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			since := time.Now().UTC().AddDate(0, 0, -days)
			report, err := app.History.History(cmd.Context(), since)
			if err != nil {
				return err
			}

			if len(report.Logs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No completed phases in the last %d days.\n", days)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatHistory(report, days, limit, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of recent days to show")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to list")

	return cmd
}

func formatHistory(report *service.HistoryReport, days, limit int, now time.Time) string {
	var b strings.Builder

	summaryRows := make([][]string, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		summaryRows = append(summaryRows, []string{
			formatter.PhaseBadge(s.Phase),
			strconv.Itoa(s.Count),
			formatter.FormatMinutes(s.TotalMinutes),
		})
	}
	b.WriteString(formatter.RenderTable([]string{"PHASE", "COUNT", "TOTAL"}, summaryRows))
	b.WriteString("\n")

	logs := report.Logs
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		session := ""
		if l.Phase == domain.PhaseWork {
			session = formatter.Ordinal(l.WorkSessionNumber) + " focus"
		}
		rows = append(rows, []string{
			formatter.AgoFrom(l.CompletedAt, now),
			formatter.PhaseBadge(l.Phase),
			formatter.FormatMinutes(l.PlannedMinutes),
			formatter.Dim(session),
		})
	}
	b.WriteString(formatter.RenderTable([]string{"WHEN", "PHASE", "LENGTH", ""}, rows))
	if hidden := len(report.Logs) - len(logs); hidden > 0 {
		b.WriteString(formatter.Dim(fmt.Sprintf("… and %d more\n", hidden)))
	}

	return formatter.RenderBox(fmt.Sprintf("Last %d days", days), b.String())
}
