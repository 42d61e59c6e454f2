// Package engine owns the ordered create/cleanup sequence for all managed
// resources. There is no local state ledger: the target environment's
// current resource set is the only source of truth, and idempotence comes
// from if-exists / if-absent semantics on every operation.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/frostline-io/frostline/internal/logging"
	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

// Actions recorded on outcomes.
const (
	ActionCreate = "create"
	ActionDrop   = "drop"
	ActionAttach = "attach"
)

// Orchestrator drives the two-phase lifecycle: teardown in reverse
// dependency order, then provisioning in forward dependency order.
type Orchestrator struct {
	client  platform.Client
	queries map[spec.Kind]DependentQuery
	log     interface {
		Debug(msg string, args ...any)
		Info(msg string, args ...any)
		Warn(msg string, args ...any)
	}
}

// New constructs an Orchestrator with the default dependent-query registry:
// models spawn services at generated names, so the model kind carries a
// discovery query and every other kind tears down directly.
func New(client platform.Client) *Orchestrator {
	return &Orchestrator{
		client:  client,
		queries: DefaultQueries(),
		log:     logging.For("engine"),
	}
}

// Teardown visits resources in reverse dependency order and drops each one
// with if-exists semantics. Owners with a registered dependent query have
// their dependents discovered and dropped first; the owner drop is skipped
// with a recorded failure when any dependent drop failed, since the platform
// refuses to delete a resource with live dependents. Teardown is best-effort
// throughout: individual failures are recorded and the pass continues.
func (o *Orchestrator) Teardown(ctx context.Context, resources []*spec.Resource) ([]spec.Outcome, error) {
	dag, err := BuildDAG(resources)
	if err != nil {
		return nil, err
	}

	var outcomes []spec.Outcome
	for _, addr := range dag.TeardownOrder() {
		res := dag.Resource(addr)

		if q, ok := o.queries[res.Kind]; ok {
			depOutcomes, blocked := o.teardownDependents(ctx, res, q)
			outcomes = append(outcomes, depOutcomes...)
			if blocked {
				outcomes = append(outcomes, spec.Outcome{
					Target: addr,
					Action: ActionDrop,
					Status: spec.StatusFailed,
					Err:    platform.DependencyBlocked("teardown", addr, "dependent cleanup incomplete"),
				})
				continue
			}
		}

		outcomes = append(outcomes, o.drop(ctx, res.Kind, res.Name, addr))
	}

	return outcomes, nil
}

// teardownDependents discovers and drops the dynamically-named dependents of
// an owner. It reports whether the owner is still blocked afterwards.
func (o *Orchestrator) teardownDependents(ctx context.Context, owner *spec.Resource, q DependentQuery) ([]spec.Outcome, bool) {
	dependents, err := o.DiscoverDependents(ctx, owner, q)
	if err != nil {
		return []spec.Outcome{{
			Target: owner.Addr(),
			Action: ActionDrop,
			Status: spec.StatusFailed,
			Err:    fmt.Errorf("dependent discovery for %s: %w", owner.Addr(), err),
		}}, true
	}

	var outcomes []spec.Outcome
	blocked := false
	for _, dep := range dependents {
		// One level of nesting is all the discovery walk handles. A
		// dependent kind with its own query would need recursion here.
		if _, nested := o.queries[dep.Kind]; nested {
			o.log.Warn("discovered dependent has its own dependent query; nested dependents are not discovered",
				"owner", owner.Addr(), "dependent", dep.Name)
		}

		out := o.drop(ctx, dep.Kind, dep.Name, string(dep.Kind)+"."+dep.Name)
		if out.Status == spec.StatusFailed {
			blocked = true
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, blocked
}

// drop removes one resource with if-exists semantics. An absent resource is
// a no-op success so the pass converges on repeated runs.
func (o *Orchestrator) drop(ctx context.Context, kind spec.Kind, name, target string) spec.Outcome {
	err := o.client.Drop(ctx, kind, name)
	if err != nil && !errors.Is(err, platform.ErrNotFound) {
		o.log.Warn("drop failed", "target", target, "error", err)
		return spec.Outcome{Target: target, Action: ActionDrop, Status: spec.StatusFailed, Err: err}
	}
	o.log.Debug("dropped", "target", target)
	return spec.Outcome{Target: target, Action: ActionDrop, Status: spec.StatusSuccess}
}

// Provision visits resources in forward dependency order and creates each
// one: create-or-replace for config-only kinds, create-if-absent for kinds
// holding data. A failed resource marks everything transitively depending
// on it as skipped; independent branches continue. Failures on ownership
// prerequisites (role, database, schema) and authorization failures are
// flagged fatal for the run's exit status.
func (o *Orchestrator) Provision(ctx context.Context, resources []*spec.Resource) ([]spec.Outcome, error) {
	dag, err := BuildDAG(resources)
	if err != nil {
		return nil, err
	}

	blocked := make(map[string]bool)
	var outcomes []spec.Outcome

	for _, addr := range dag.ProvisionOrder() {
		res := dag.Resource(addr)

		if dep := firstBlocked(dag.Dependencies(addr), blocked); dep != "" {
			blocked[addr] = true
			outcomes = append(outcomes, spec.Outcome{
				Target: addr,
				Action: ActionCreate,
				Status: spec.StatusSkipped,
				Err:    fmt.Errorf("dependency %s was not provisioned", dep),
			})
			continue
		}

		if err := o.client.Create(ctx, res); err != nil {
			blocked[addr] = true
			outcomes = append(outcomes, spec.Outcome{
				Target: addr,
				Action: ActionCreate,
				Status: spec.StatusFailed,
				Fatal:  res.Kind.Prerequisite() || errors.Is(err, platform.ErrPermissionDenied),
				Err:    err,
			})
			continue
		}

		o.log.Debug("provisioned", "target", addr)
		outcomes = append(outcomes, spec.Outcome{Target: addr, Action: ActionCreate, Status: spec.StatusSuccess})
	}

	return outcomes, nil
}

func firstBlocked(deps []string, blocked map[string]bool) string {
	for _, dep := range deps {
		if blocked[dep] {
			return dep
		}
	}
	return ""
}

// AttachArtifacts wires each notebook resource to its freshly published
// artifact and enables its external network access. Published refs are the
// successfully synced subset; a notebook whose expected artifact is not
// among them is skipped, as is a notebook that does not exist on the
// platform (no-op per the not-found rule).
func (o *Orchestrator) AttachArtifacts(ctx context.Context, notebooks []*spec.Resource, published []spec.ArtifactRef) []spec.Outcome {
	byFile := make(map[string]spec.ArtifactRef, len(published))
	for _, ref := range published {
		byFile[ref.FileName()] = ref
	}

	var outcomes []spec.Outcome
	for _, nb := range notebooks {
		addr := nb.Addr()
		want := nb.Options["main_file"]

		ref, ok := byFile[want]
		if !ok {
			outcomes = append(outcomes, spec.Outcome{
				Target: addr,
				Action: ActionAttach,
				Status: spec.StatusSkipped,
				Err:    fmt.Errorf("artifact %s was not published", want),
			})
			continue
		}

		exists, err := o.client.Exists(ctx, spec.KindNotebook, nb.Name)
		if err != nil {
			outcomes = append(outcomes, spec.Outcome{Target: addr, Action: ActionAttach, Status: spec.StatusFailed, Err: err})
			continue
		}
		if !exists {
			outcomes = append(outcomes, spec.Outcome{
				Target: addr,
				Action: ActionAttach,
				Status: spec.StatusSkipped,
				Err:    platform.NotFound("attach", addr),
			})
			continue
		}

		options := map[string]string{
			"main_file":        ref.FileName(),
			"add_live_version": "true",
		}
		if integration := nb.Options["external_access"]; integration != "" {
			options["external_access_integrations"] = integration
		}

		if err := o.client.Alter(ctx, spec.KindNotebook, nb.Name, options); err != nil {
			outcomes = append(outcomes, spec.Outcome{Target: addr, Action: ActionAttach, Status: spec.StatusFailed, Err: err})
			continue
		}

		o.log.Info("attached artifact", "notebook", addr, "artifact", ref.FileName())
		outcomes = append(outcomes, spec.Outcome{Target: addr, Action: ActionAttach, Status: spec.StatusSuccess})
	}

	return outcomes
}
