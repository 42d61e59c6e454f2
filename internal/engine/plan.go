package engine

import (
	"github.com/frostline-io/frostline/internal/spec"
)

// PlannedOp is one operation a run would execute, in execution order.
type PlannedOp struct {
	Phase  string // "teardown", "provision", "sync", "attach"
	Action string
	Target string
}

// Plan lists every operation a full run would attempt, without executing
// anything. Dependent discovery cannot be previewed from a plan since the
// dependents only exist at teardown time; the plan records the discovery
// step itself for owners that will run one.
func Plan(resources []*spec.Resource, notebooks []*spec.Resource, refs []spec.ArtifactRef) ([]PlannedOp, error) {
	dag, err := BuildDAG(resources)
	if err != nil {
		return nil, err
	}

	ops := teardownOps(dag)

	for _, addr := range dag.ProvisionOrder() {
		ops = append(ops, PlannedOp{Phase: "provision", Action: ActionCreate, Target: addr})
	}

	for _, ref := range refs {
		ops = append(ops, PlannedOp{Phase: "sync", Action: "fetch+publish", Target: ref.FileName()})
	}

	for _, nb := range notebooks {
		ops = append(ops, PlannedOp{Phase: "attach", Action: ActionAttach, Target: nb.Addr()})
	}

	return ops, nil
}

// PlanTeardown lists only the teardown phase, for teardown-only dry runs.
func PlanTeardown(resources []*spec.Resource) ([]PlannedOp, error) {
	dag, err := BuildDAG(resources)
	if err != nil {
		return nil, err
	}
	return teardownOps(dag), nil
}

func teardownOps(dag *DAG) []PlannedOp {
	queries := DefaultQueries()
	var ops []PlannedOp
	for _, addr := range dag.TeardownOrder() {
		res := dag.Resource(addr)
		if q, ok := queries[res.Kind]; ok {
			ops = append(ops, PlannedOp{
				Phase:  "teardown",
				Action: "discover " + string(q.Candidate) + " dependents",
				Target: addr,
			})
		}
		ops = append(ops, PlannedOp{Phase: "teardown", Action: ActionDrop, Target: addr})
	}
	return ops
}
