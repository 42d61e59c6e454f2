package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/frostline-io/frostline/internal/artifact"
	"github.com/frostline-io/frostline/internal/engine"
	"github.com/frostline-io/frostline/internal/logging"
	"github.com/frostline-io/frostline/internal/report"
	"github.com/frostline-io/frostline/internal/spec"
)

var upDryRun bool

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Tear down, re-provision and populate the workspace",
	Long: `Runs the full lifecycle: teardown in reverse dependency order, provisioning
in forward dependency order, artifact sync into the notebook stage, and
artifact attachment to the notebook objects.

The run always completes its best-effort pass; the exit status is non-zero
only when a fatal outcome (ownership prerequisite or authorization failure)
exists.`,
	RunE: runUp,
}

func init() {
	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "list planned operations without executing")
}

func runUp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resources := cfg.Resources()
	refs := cfg.ArtifactRefs()
	notebooks := cfg.NotebookResources()

	// A malformed dependency graph aborts before any side effect.
	if _, err := engine.BuildDAG(resources); err != nil {
		return err
	}

	if upDryRun {
		ops, err := engine.Plan(resources, notebooks, refs)
		if err != nil {
			return err
		}
		return printPlan(cmd, ops)
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}
	orch := engine.New(client)

	var phases []report.Phase

	teardown, err := orch.Teardown(ctx, resources)
	if err != nil {
		return err
	}
	phases = append(phases, report.Phase{Name: "teardown", Outcomes: teardown})

	provision, err := orch.Provision(ctx, resources)
	if err != nil {
		return err
	}
	phases = append(phases, report.Phase{Name: "provision", Outcomes: provision})

	// A fatal provisioning failure leaves nothing to sync into or attach
	// to; the report still covers everything attempted so far.
	if !spec.AnyFatal(provision) {
		pipeline, listFiles, err := buildSync(ctx, cfg, client)
		if err != nil {
			return err
		}

		syncOutcomes := pipeline.Run(ctx, refs)
		phases = append(phases, report.Phase{Name: "sync", Outcomes: syncOutcomes})

		published := artifact.Published(refs, syncOutcomes)
		verifyPublished(ctx, listFiles, cfg.NotebookStagePath(), published)

		attach := orch.AttachArtifacts(ctx, notebooks, published)
		phases = append(phases, report.Phase{Name: "attach", Outcomes: attach})
	}

	if err := report.Render(os.Stdout, phases); err != nil {
		return err
	}
	report.Summarize(os.Stdout, phases)

	if report.ExitCode(phases) != 0 {
		return errors.New("run finished with fatal failures")
	}
	return nil
}

// verifyPublished cross-checks the destination listing against what the
// sync pass claims to have published. A mismatch is logged, not fatal: the
// attach phase skips anything genuinely missing.
func verifyPublished(ctx context.Context, listFiles artifact.ListFunc, scope string, published []spec.ArtifactRef) {
	names := make([]string, 0, len(published))
	for _, ref := range published {
		names = append(names, ref.FileName())
	}

	missing, err := artifact.VerifyPublished(ctx, listFiles, scope, names)
	if err != nil {
		logging.Warn("post-publish verification failed", "error", err)
		return
	}
	if len(missing) > 0 {
		logging.Warn("published artifacts missing from destination listing", "missing", missing)
	}
}
