package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/frostline-io/frostline/internal/engine"
	"github.com/frostline-io/frostline/internal/report"
)

var downDryRun bool

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Tear down the workspace",
	Long: `Drops all managed resources in reverse dependency order. Owners that spawn
dynamically-named dependents have those discovered and dropped first.
Teardown is best-effort: individual failures are recorded and the pass
continues, converging toward an absent state on repeated runs.`,
	RunE: runDown,
}

func init() {
	downCmd.Flags().BoolVar(&downDryRun, "dry-run", false, "list planned operations without executing")
}

func runDown(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resources := cfg.Resources()

	if downDryRun {
		ops, err := engine.PlanTeardown(resources)
		if err != nil {
			return err
		}
		return printPlan(cmd, ops)
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	outcomes, err := engine.New(client).Teardown(ctx, resources)
	if err != nil {
		return err
	}

	phases := []report.Phase{{Name: "teardown", Outcomes: outcomes}}
	if err := report.Render(os.Stdout, phases); err != nil {
		return err
	}
	report.Summarize(os.Stdout, phases)

	if report.ExitCode(phases) != 0 {
		return errors.New("teardown finished with fatal failures")
	}
	return nil
}
