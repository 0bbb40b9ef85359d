package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/quizsight/quizsight/internal/insight"
)

// RenderText prints every ranked table plus the summary to w, for the
// offline report command.
func RenderText(w io.Writer, rep insight.Report) {
	for _, sec := range rep.Sections() {
		fmt.Fprintf(w, "\n%s (top %d)\n", sec.Name, rep.Limit)
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"#", "Key", sec.ValueHeader})
		for i, e := range sec.Entries {
			table.Append([]string{
				strconv.Itoa(i + 1),
				e.Key,
				strconv.FormatFloat(e.Value, 'f', 2, 64),
			})
		}
		for i, e := range sec.TimeEntries {
			at := "-"
			if !e.At.IsZero() {
				at = e.At.Format(time.RFC3339)
			}
			table.Append([]string{strconv.Itoa(i + 1), e.Key, at})
		}
		table.Render()
	}

	s := rep.Summary
	fmt.Fprintf(w, "\nsummary: voters=%d questions=%d ballots=%d correct=%d avg_accuracy=%.1f%%\n",
		s.Voters, s.Questions, s.TotalBallots, s.TotalCorrect, s.AverageAccuracy)
}
