package cli

import (
	"context"
	"fmt"

	"github.com/frostline-io/frostline/internal/artifact"
	"github.com/frostline-io/frostline/internal/config"
	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/provider"
	"github.com/frostline-io/frostline/providers/s3stage"
)

// loadConfig reads the workspace declaration behind the --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildClient constructs the platform client the config names.
func buildClient(cfg *config.Config) (platform.Client, error) {
	return provider.NewRegistry().Load(cfg.Platform.Provider, cfg)
}

// buildSync wires the artifact pipeline: HTTP fetch on one side, either
// the external-stage publisher or the platform client on the other. The
// returned list function reads the destination back for post-publish
// verification.
func buildSync(ctx context.Context, cfg *config.Config, client platform.Client) (*artifact.Pipeline, artifact.ListFunc, error) {
	fetcher := artifact.NewHTTPFetcher(nil, cfg.Artifacts.FetchTimeout)

	if cfg.Artifacts.Storage.Bucket != "" {
		publisher, err := s3stage.New(ctx, s3stage.Config{
			Bucket:  cfg.Artifacts.Storage.Bucket,
			Prefix:  cfg.Artifacts.Storage.Prefix,
			Region:  cfg.Artifacts.Storage.Region,
			Profile: cfg.Artifacts.Storage.Profile,
		})
		if err != nil {
			return nil, nil, err
		}
		return artifact.NewPipeline(fetcher.Fetch, publisher.Publish), publisher.List, nil
	}

	return artifact.NewPipeline(fetcher.Fetch, client.Put), client.ListFiles, nil
}
