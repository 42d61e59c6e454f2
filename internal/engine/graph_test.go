package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

func TestBuildDAG_NoDependencies(t *testing.T) {
	resources := []*spec.Resource{
		{Kind: spec.KindRole, Name: "A"},
		{Kind: spec.KindRole, Name: "B"},
		{Kind: spec.KindRole, Name: "C"},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)

	order := dag.ProvisionOrder()
	assert.Len(t, order, 3)
	// No edges: declaration order is the tie-break order.
	assert.Equal(t, []string{"role.A", "role.B", "role.C"}, order)
}

func TestBuildDAG_ExplicitDependsOn(t *testing.T) {
	resources := []*spec.Resource{
		{Kind: spec.KindRole, Name: "A", DependsOn: []string{"role.B"}},
		{Kind: spec.KindRole, Name: "B"},
		{Kind: spec.KindRole, Name: "C", DependsOn: []string{"role.A"}},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)

	order := dag.ProvisionOrder()
	require.Len(t, order, 3)

	posB := indexOf(order, "role.B")
	posA := indexOf(order, "role.A")
	posC := indexOf(order, "role.C")

	assert.Less(t, posB, posA, "B should come before A")
	assert.Less(t, posA, posC, "A should come before C")
}

func TestBuildDAG_ChainOrdering(t *testing.T) {
	// A with no deps, B depending on A, C depending on both: provisioning
	// must run A, B, C and teardown the exact reverse.
	resources := []*spec.Resource{
		{Kind: spec.KindDatabase, Name: "A"},
		{Kind: spec.KindSchema, Name: "B", DependsOn: []string{"database.A"}},
		{Kind: spec.KindStage, Name: "C", DependsOn: []string{"database.A", "schema.B"}},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)

	assert.Equal(t, []string{"database.A", "schema.B", "stage.C"}, dag.ProvisionOrder())
	assert.Equal(t, []string{"stage.C", "schema.B", "database.A"}, dag.TeardownOrder())
}

func TestBuildDAG_CycleDetection(t *testing.T) {
	resources := []*spec.Resource{
		{Kind: spec.KindRole, Name: "A", DependsOn: []string{"role.B"}},
		{Kind: spec.KindRole, Name: "B", DependsOn: []string{"role.A"}},
	}

	_, err := BuildDAG(resources)
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrConfiguration)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuildDAG_DanglingDependency(t *testing.T) {
	resources := []*spec.Resource{
		{Kind: spec.KindRole, Name: "A", DependsOn: []string{"role.MISSING"}},
	}

	_, err := BuildDAG(resources)
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrConfiguration)
	assert.Contains(t, err.Error(), "undeclared")
}

func TestBuildDAG_DuplicateDeclaration(t *testing.T) {
	resources := []*spec.Resource{
		{Kind: spec.KindRole, Name: "A"},
		{Kind: spec.KindRole, Name: "A"},
	}

	_, err := BuildDAG(resources)
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrConfiguration)
}

func TestBuildDAG_DeterministicTieBreak(t *testing.T) {
	// D and B both depend only on A; declaration order decides who runs
	// first, on every build.
	resources := []*spec.Resource{
		{Kind: spec.KindRole, Name: "A"},
		{Kind: spec.KindRole, Name: "D", DependsOn: []string{"role.A"}},
		{Kind: spec.KindRole, Name: "B", DependsOn: []string{"role.A"}},
	}

	for range 10 {
		dag, err := BuildDAG(resources)
		require.NoError(t, err)
		assert.Equal(t, []string{"role.A", "role.D", "role.B"}, dag.ProvisionOrder())
	}
}

func indexOf(order []string, addr string) int {
	for i, a := range order {
		if a == addr {
			return i
		}
	}
	return -1
}
