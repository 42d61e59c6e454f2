package config

import (
	"strconv"
	"strings"

	"github.com/frostline-io/frostline/internal/spec"
)

// Qualified name helpers. The platform scopes schema-level objects as
// DATABASE.SCHEMA.NAME; roles, warehouses, compute pools and integrations
// are account-level.

func (c *Config) qualifiedSchema() string {
	return c.Workspace.Database + "." + c.Workspace.Schema
}

func (c *Config) qualified(name string) string {
	return c.qualifiedSchema() + "." + name
}

// NotebookStagePath returns the storage path artifacts are published under.
func (c *Config) NotebookStagePath() string {
	return "@" + c.qualified(c.Workspace.Stages.Notebooks)
}

// ModelStagePath returns the storage path model files live under.
func (c *Config) ModelStagePath() string {
	return "@" + c.qualified(c.Workspace.Stages.Models)
}

// Resources expands the workspace declaration into the ordered resource
// list the orchestrator runs over. Declaration order is the tie-break order
// within a dependency level, so the list is written in the natural
// provisioning sequence.
func (c *Config) Resources() []*spec.Resource {
	w := c.Workspace
	schema := c.qualifiedSchema()

	role := &spec.Resource{
		Kind: spec.KindRole,
		Name: w.Role,
	}
	database := &spec.Resource{
		Kind:      spec.KindDatabase,
		Name:      w.Database,
		DependsOn: []string{role.Addr()},
	}
	schemaRes := &spec.Resource{
		Kind:      spec.KindSchema,
		Name:      schema,
		Parent:    w.Database,
		DependsOn: []string{database.Addr()},
	}
	warehouse := &spec.Resource{
		Kind: spec.KindWarehouse,
		Name: w.Warehouse.Name,
		Options: map[string]string{
			"warehouse_size":      w.Warehouse.Size,
			"auto_suspend":        "60",
			"initially_suspended": "true",
		},
		DependsOn: []string{role.Addr()},
	}
	networkRule := &spec.Resource{
		Kind:   spec.KindNetworkRule,
		Name:   c.qualified(w.Network.RuleName),
		Parent: schema,
		Options: map[string]string{
			"type":       "HOST_PORT",
			"mode":       "EGRESS",
			"value_list": strings.Join(w.Network.AllowList, ","),
		},
		DependsOn: []string{schemaRes.Addr()},
	}
	integration := &spec.Resource{
		Kind: spec.KindAccessIntegration,
		Name: w.Integration,
		Options: map[string]string{
			"allowed_network_rules": networkRule.Name,
			"enabled":               "true",
		},
		DependsOn: []string{networkRule.Addr(), role.Addr()},
	}
	notebookStage := &spec.Resource{
		Kind:   spec.KindStage,
		Name:   c.qualified(w.Stages.Notebooks),
		Parent: schema,
		Options: map[string]string{
			"encryption": "SNOWFLAKE_SSE",
			"directory":  "true",
		},
		DependsOn: []string{schemaRes.Addr()},
	}
	modelStage := &spec.Resource{
		Kind:   spec.KindStage,
		Name:   c.qualified(w.Stages.Models),
		Parent: schema,
		Options: map[string]string{
			"encryption": "SNOWFLAKE_SSE",
			"directory":  "true",
		},
		DependsOn: []string{schemaRes.Addr()},
	}
	computePool := &spec.Resource{
		Kind: spec.KindComputePool,
		Name: w.ComputePool.Name,
		Options: map[string]string{
			"instance_family":   w.ComputePool.InstanceFamily,
			"min_nodes":         strconv.Itoa(w.ComputePool.MinNodes),
			"max_nodes":         strconv.Itoa(w.ComputePool.MaxNodes),
			"auto_suspend_secs": "300",
		},
		DependsOn: []string{role.Addr()},
	}
	model := &spec.Resource{
		Kind:   spec.KindModel,
		Name:   c.qualified(w.Model),
		Parent: schema,
		Options: map[string]string{
			"stage": c.ModelStagePath(),
		},
		DependsOn: []string{schemaRes.Addr(), modelStage.Addr(), computePool.Addr()},
	}

	resources := []*spec.Resource{
		role, database, schemaRes, warehouse,
		networkRule, integration,
		notebookStage, modelStage,
		computePool, model,
	}

	for _, nb := range w.Notebooks {
		resources = append(resources, &spec.Resource{
			Kind:   spec.KindNotebook,
			Name:   c.qualified(nb.Name),
			Parent: schema,
			Options: map[string]string{
				"stage":           c.NotebookStagePath(),
				"main_file":       nb.File,
				"warehouse":       w.Warehouse.Name,
				"compute_pool":    w.ComputePool.Name,
				"external_access": w.Integration,
			},
			DependsOn: []string{
				notebookStage.Addr(),
				warehouse.Addr(),
				computePool.Addr(),
				integration.Addr(),
			},
		})
	}

	return resources
}

// NotebookResources returns the notebook subset of Resources, the inputs to
// artifact attachment.
func (c *Config) NotebookResources() []*spec.Resource {
	var notebooks []*spec.Resource
	for _, res := range c.Resources() {
		if res.Kind == spec.KindNotebook {
			notebooks = append(notebooks, res)
		}
	}
	return notebooks
}

// ArtifactRefs expands the artifact file list into fetch/publish units
// targeting the notebook stage.
func (c *Config) ArtifactRefs() []spec.ArtifactRef {
	base := strings.TrimRight(c.Artifacts.BaseURL, "/")
	refs := make([]spec.ArtifactRef, 0, len(c.Artifacts.Files))
	for _, f := range c.Artifacts.Files {
		refs = append(refs, spec.ArtifactRef{
			SourceURL: base + "/" + f.Name,
			DestPath:  c.NotebookStagePath() + "/" + f.Name,
			SHA256:    f.SHA256,
		})
	}
	return refs
}
