package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

// DependentQuery describes how to find the anonymous dependents of an owner
// kind before the owner can be dropped. The platform exposes no "list
// dependents of X" primitive, so discovery is a relational join against a
// point-in-time listing: enumerate every candidate in the owner's containing
// scope, then keep the ones whose back-reference attribute names the owner.
type DependentQuery struct {
	Candidate spec.Kind
	Attribute string // back-reference attribute carrying the owner's qualified name
}

// DefaultQueries registers discovery for the kinds known to spawn
// dynamically-named dependents. Today that is only the model kind, whose
// inference services appear under UUID-suffixed names.
func DefaultQueries() map[spec.Kind]DependentQuery {
	return map[spec.Kind]DependentQuery{
		spec.KindModel: {Candidate: spec.KindService, Attribute: platform.AttrManagedBy},
	}
}

// DiscoverDependents runs the list-then-filter join for one owner. It runs
// from scratch on every invocation: dependent names are regenerated with
// new suffixes on every provisioning cycle, so caching them would only
// reintroduce staleness.
func (o *Orchestrator) DiscoverDependents(ctx context.Context, owner *spec.Resource, q DependentQuery) ([]platform.Object, error) {
	candidates, err := o.client.List(ctx, q.Candidate, owner.Parent)
	if err != nil {
		return nil, fmt.Errorf("list %s in %s: %w", q.Candidate, owner.Parent, err)
	}

	var dependents []platform.Object
	for _, obj := range candidates {
		managedBy, err := o.client.Attribute(ctx, obj.Kind, obj.Name, q.Attribute)
		if err != nil {
			// A candidate that vanished between list and read is not a
			// dependent anymore.
			if errors.Is(err, platform.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("read %s of %s: %w", q.Attribute, obj.Name, err)
		}
		if matchesOwner(managedBy, owner.Name) {
			dependents = append(dependents, obj)
		}
	}

	o.log.Debug("discovered dependents",
		"owner", owner.Addr(), "candidates", len(candidates), "matched", len(dependents))
	return dependents, nil
}

// matchesOwner compares a back-reference value against the owner's qualified
// name. Platforms report the attribute in whichever form their listing
// surface uses: some qualified, some bare. The candidate list is already
// narrowed to the owner's containing scope, so a bare name is unambiguous
// there.
func matchesOwner(managedBy, ownerName string) bool {
	if managedBy == "" {
		return false
	}
	if managedBy == ownerName {
		return true
	}
	if i := strings.LastIndex(ownerName, "."); i >= 0 {
		return managedBy == ownerName[i+1:]
	}
	return false
}
