package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/frostline-io/frostline/internal/artifact"
	"github.com/frostline-io/frostline/internal/report"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch artifacts and publish them to the notebook stage",
	Long: `Runs only the artifact sync pass: fetch each declared notebook file from
the remote source and publish it into managed storage with overwrite
semantics. One broken artifact never blocks the others.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	pipeline, listFiles, err := buildSync(ctx, cfg, client)
	if err != nil {
		return err
	}

	refs := cfg.ArtifactRefs()
	outcomes := pipeline.Run(ctx, refs)
	verifyPublished(ctx, listFiles, cfg.NotebookStagePath(), artifact.Published(refs, outcomes))

	phases := []report.Phase{{Name: "sync", Outcomes: outcomes}}
	if err := report.Render(os.Stdout, phases); err != nil {
		return err
	}
	report.Summarize(os.Stdout, phases)

	if report.ExitCode(phases) != 0 {
		return errors.New("sync finished with fatal failures")
	}
	return nil
}
