// Package report renders the final run summary: every attempted operation
// with its outcome, plus the exit decision.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/frostline-io/frostline/internal/spec"
)

var (
	successText = color.New(color.FgGreen).Sprint
	failedText  = color.New(color.FgRed).Sprint
	skippedText = color.New(color.FgYellow).Sprint
)

// Phase groups the outcomes of one run phase for rendering.
type Phase struct {
	Name     string
	Outcomes []spec.Outcome
}

// Render writes the outcome table for all phases.
func Render(w io.Writer, phases []Phase) error {
	table := tablewriter.NewTable(w).Options(tablewriter.WithRendition(
		tw.Rendition{
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
	table.Header([]string{"PHASE", "ACTION", "TARGET", "STATUS", "DETAIL"})

	for _, phase := range phases {
		for _, o := range phase.Outcomes {
			detail := ""
			if o.Err != nil {
				detail = o.Err.Error()
			}
			if err := table.Append([]any{phase.Name, o.Action, o.Target, statusText(o.Status), detail}); err != nil {
				return fmt.Errorf("render summary row: %w", err)
			}
		}
	}

	return table.Render()
}

func statusText(s spec.Status) string {
	switch s {
	case spec.StatusSuccess:
		return successText("success")
	case spec.StatusFailed:
		return failedText("failed")
	case spec.StatusSkipped:
		return skippedText("skipped")
	default:
		return string(s)
	}
}

// Summarize writes the per-status totals line for all phases.
func Summarize(w io.Writer, phases []Phase) {
	var all []spec.Outcome
	for _, phase := range phases {
		all = append(all, phase.Outcomes...)
	}
	counts := spec.CountByStatus(all)
	fmt.Fprintf(w, "\n%d succeeded, %d failed, %d skipped.\n",
		counts[spec.StatusSuccess], counts[spec.StatusFailed], counts[spec.StatusSkipped])
}

// ExitCode decides the process exit status: non-zero only when a fatal
// outcome exists. Non-fatal failures are reported but do not fail the run.
func ExitCode(phases []Phase) int {
	for _, phase := range phases {
		if spec.AnyFatal(phase.Outcomes) {
			return 1
		}
	}
	return 0
}
