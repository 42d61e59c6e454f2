package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frostline-io/frostline/internal/engine"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "List the operations a full run would execute",
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ops, err := engine.Plan(cfg.Resources(), cfg.NotebookResources(), cfg.ArtifactRefs())
	if err != nil {
		return err
	}
	return printPlan(cmd, ops)
}

func printPlan(cmd *cobra.Command, ops []engine.PlannedOp) error {
	out := cmd.OutOrStdout()
	phase := ""
	for _, op := range ops {
		if op.Phase != phase {
			phase = op.Phase
			fmt.Fprintf(out, "\n%s:\n", phase)
		}
		fmt.Fprintf(out, "  %-40s %s\n", op.Action, op.Target)
	}
	fmt.Fprintf(out, "\n%d operations planned.\n", len(ops))
	return nil
}
