package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline-io/frostline/internal/spec"
)

func resourceByAddr(t *testing.T, resources []*spec.Resource, addr string) *spec.Resource {
	t.Helper()
	for _, res := range resources {
		if res.Addr() == addr {
			return res
		}
	}
	t.Fatalf("no resource %s", addr)
	return nil
}

func TestResources_CoversEveryWorkspaceKind(t *testing.T) {
	resources := Default().Resources()

	counts := make(map[spec.Kind]int)
	for _, res := range resources {
		counts[res.Kind]++
	}

	assert.Equal(t, 1, counts[spec.KindRole])
	assert.Equal(t, 1, counts[spec.KindDatabase])
	assert.Equal(t, 1, counts[spec.KindSchema])
	assert.Equal(t, 1, counts[spec.KindWarehouse])
	assert.Equal(t, 1, counts[spec.KindNetworkRule])
	assert.Equal(t, 1, counts[spec.KindAccessIntegration])
	assert.Equal(t, 2, counts[spec.KindStage], "notebook and model stages")
	assert.Equal(t, 1, counts[spec.KindComputePool])
	assert.Equal(t, 1, counts[spec.KindModel])
	assert.Equal(t, 3, counts[spec.KindNotebook])
	assert.Zero(t, counts[spec.KindService], "services are never declared, only discovered")
}

func TestResources_QualifiedNamesAndScopes(t *testing.T) {
	resources := Default().Resources()

	schema := resourceByAddr(t, resources, "schema.IMAGING_DB.IMAGING_SCHEMA")
	assert.Equal(t, "IMAGING_DB", schema.Parent)

	model := resourceByAddr(t, resources, "model.IMAGING_DB.IMAGING_SCHEMA.REGISTRATION_MODEL")
	assert.Equal(t, "IMAGING_DB.IMAGING_SCHEMA", model.Parent)
	assert.Equal(t, "@IMAGING_DB.IMAGING_SCHEMA.MODELS", model.Options["stage"])

	// Account-level kinds carry no scope.
	warehouse := resourceByAddr(t, resources, "warehouse.IMAGING_WH")
	assert.Empty(t, warehouse.Parent)
}

func TestResources_DependencyEdges(t *testing.T) {
	resources := Default().Resources()

	database := resourceByAddr(t, resources, "database.IMAGING_DB")
	assert.Equal(t, []string{"role.IMAGING_ROLE"}, database.DependsOn)

	integration := resourceByAddr(t, resources, "access_integration.IMAGING_ACCESS_INTEGRATION")
	assert.Contains(t, integration.DependsOn, "network_rule.IMAGING_DB.IMAGING_SCHEMA.IMAGING_EGRESS_RULE")

	model := resourceByAddr(t, resources, "model.IMAGING_DB.IMAGING_SCHEMA.REGISTRATION_MODEL")
	assert.Contains(t, model.DependsOn, "compute_pool.IMAGING_GPU_POOL")
	assert.Contains(t, model.DependsOn, "stage.IMAGING_DB.IMAGING_SCHEMA.MODELS")

	notebook := resourceByAddr(t, resources, "notebook.IMAGING_DB.IMAGING_SCHEMA.MODEL_TRAINING")
	assert.Contains(t, notebook.DependsOn, "stage.IMAGING_DB.IMAGING_SCHEMA.NOTEBOOKS")
	assert.Contains(t, notebook.DependsOn, "access_integration.IMAGING_ACCESS_INTEGRATION")
}

func TestResources_EveryDependencyResolves(t *testing.T) {
	resources := Default().Resources()

	addrs := make(map[string]bool, len(resources))
	for _, res := range resources {
		addrs[res.Addr()] = true
	}
	for _, res := range resources {
		for _, dep := range res.DependsOn {
			assert.True(t, addrs[dep], "%s depends on undeclared %s", res.Addr(), dep)
		}
	}
}

func TestResources_NotebookOptions(t *testing.T) {
	resources := Default().Resources()
	nb := resourceByAddr(t, resources, "notebook.IMAGING_DB.IMAGING_SCHEMA.INGEST_DATA")

	assert.Equal(t, "01_ingest_data.ipynb", nb.Options["main_file"])
	assert.Equal(t, "@IMAGING_DB.IMAGING_SCHEMA.NOTEBOOKS", nb.Options["stage"])
	assert.Equal(t, "IMAGING_WH", nb.Options["warehouse"])
	assert.Equal(t, "IMAGING_GPU_POOL", nb.Options["compute_pool"])
	assert.Equal(t, "IMAGING_ACCESS_INTEGRATION", nb.Options["external_access"])
}

func TestNotebookResources(t *testing.T) {
	notebooks := Default().NotebookResources()
	require.Len(t, notebooks, 3)
	for _, nb := range notebooks {
		assert.Equal(t, spec.KindNotebook, nb.Kind)
	}
}

func TestArtifactRefs(t *testing.T) {
	cfg := Default()
	cfg.Artifacts.BaseURL = "https://example.com/notebooks/" // trailing slash trimmed

	refs := cfg.ArtifactRefs()
	require.Len(t, refs, 3)

	assert.Equal(t, "https://example.com/notebooks/01_ingest_data.ipynb", refs[0].SourceURL)
	assert.Equal(t, "@IMAGING_DB.IMAGING_SCHEMA.NOTEBOOKS/01_ingest_data.ipynb", refs[0].DestPath)
	assert.Equal(t, "01_ingest_data.ipynb", refs[0].FileName())
}

func TestStagePaths(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "@IMAGING_DB.IMAGING_SCHEMA.NOTEBOOKS", cfg.NotebookStagePath())
	assert.Equal(t, "@IMAGING_DB.IMAGING_SCHEMA.MODELS", cfg.ModelStagePath())
}
