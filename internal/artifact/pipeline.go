// Package artifact fetches notebook files from a remote source and
// publishes them into managed storage. The pipeline shares the engine's
// partial-failure contract: one broken artifact never blocks the others,
// and every attempt is reported.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/frostline-io/frostline/internal/logging"
	"github.com/frostline-io/frostline/internal/spec"
)

// ActionSync is the action recorded on sync outcomes.
const ActionSync = "sync"

// FetchFunc retrieves the raw bytes behind a source URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// PublishFunc writes bytes to a destination path with overwrite semantics,
// so a re-run replaces stale artifacts.
type PublishFunc func(ctx context.Context, path string, data []byte) error

// Pipeline runs the fetch/publish pass over a fixed artifact list.
type Pipeline struct {
	fetch   FetchFunc
	publish PublishFunc
	log     interface {
		Debug(msg string, args ...any)
		Warn(msg string, args ...any)
	}
}

// NewPipeline builds a Pipeline over the given fetch and publish boundaries.
func NewPipeline(fetch FetchFunc, publish PublishFunc) *Pipeline {
	return &Pipeline{
		fetch:   fetch,
		publish: publish,
		log:     logging.For("sync"),
	}
}

// Run processes each ref in order: fetch, optionally verify the content
// hash, publish. A fetch or publish failure is recorded and the pass moves
// on; there is no early abort and no retry beyond the single attempt. The
// outcome list preserves the input order.
func (p *Pipeline) Run(ctx context.Context, refs []spec.ArtifactRef) []spec.Outcome {
	outcomes := make([]spec.Outcome, 0, len(refs))

	for _, ref := range refs {
		target := ref.FileName()

		data, err := p.fetch(ctx, ref.SourceURL)
		if err != nil {
			p.log.Warn("fetch failed", "artifact", target, "url", ref.SourceURL, "error", err)
			outcomes = append(outcomes, spec.Outcome{
				Target: target,
				Action: ActionSync,
				Status: spec.StatusFailed,
				Err:    fmt.Errorf("fetch %s: %w", ref.SourceURL, err),
			})
			continue
		}

		if ref.SHA256 != "" {
			if sum := hex.EncodeToString(sha256sum(data)); sum != ref.SHA256 {
				outcomes = append(outcomes, spec.Outcome{
					Target: target,
					Action: ActionSync,
					Status: spec.StatusFailed,
					Err:    fmt.Errorf("checksum mismatch for %s: got %s, want %s", target, sum, ref.SHA256),
				})
				continue
			}
		}

		if err := p.publish(ctx, ref.DestPath, data); err != nil {
			p.log.Warn("publish failed", "artifact", target, "dest", ref.DestPath, "error", err)
			outcomes = append(outcomes, spec.Outcome{
				Target: target,
				Action: ActionSync,
				Status: spec.StatusFailed,
				Err:    fmt.Errorf("publish %s: %w", ref.DestPath, err),
			})
			continue
		}

		p.log.Debug("published artifact", "artifact", target, "bytes", len(data), "dest", ref.DestPath)
		outcomes = append(outcomes, spec.Outcome{Target: target, Action: ActionSync, Status: spec.StatusSuccess})
	}

	return outcomes
}

// Published filters refs down to the ones whose outcome reports success,
// preserving input order. The result feeds artifact attachment.
func Published(refs []spec.ArtifactRef, outcomes []spec.Outcome) []spec.ArtifactRef {
	ok := make(map[string]bool)
	for _, o := range outcomes {
		if o.Action == ActionSync && o.Succeeded() {
			ok[o.Target] = true
		}
	}

	var published []spec.ArtifactRef
	for _, ref := range refs {
		if ok[ref.FileName()] {
			published = append(published, ref)
		}
	}
	return published
}

func sha256sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
