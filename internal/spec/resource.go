package spec

// Kind identifies a managed resource type.
type Kind string

const (
	KindDatabase          Kind = "database"
	KindSchema            Kind = "schema"
	KindRole              Kind = "role"
	KindWarehouse         Kind = "warehouse"
	KindStage             Kind = "stage"
	KindNetworkRule       Kind = "network_rule"
	KindAccessIntegration Kind = "access_integration"
	KindComputePool       Kind = "compute_pool"
	KindModel             Kind = "model"
	KindNotebook          Kind = "notebook"

	// KindService is never declared in a workspace config. Services are
	// spawned by a running model under generated names and only show up
	// during dependent discovery at teardown time.
	KindService Kind = "service"
)

// CreateMode controls how a kind is provisioned on re-run.
type CreateMode int

const (
	// CreateOrReplace recreates the resource from its declared configuration.
	CreateOrReplace CreateMode = iota
	// CreateIfAbsent leaves an existing resource untouched. Used for kinds
	// that hold data a replace would destroy.
	CreateIfAbsent
)

// CreateMode returns the provisioning mode for the kind. Stages hold
// uploaded artifacts and compute pools hold warm nodes, so both survive
// re-runs intact; everything else is config-only and safe to replace.
func (k Kind) CreateMode() CreateMode {
	switch k {
	case KindStage, KindComputePool:
		return CreateIfAbsent
	default:
		return CreateOrReplace
	}
}

// Prerequisite reports whether a provisioning failure of this kind blocks
// the rest of the run. Role, database and schema are ownership/containment
// prerequisites for every other resource.
func (k Kind) Prerequisite() bool {
	switch k {
	case KindRole, KindDatabase, KindSchema:
		return true
	default:
		return false
	}
}

// Resource declares a single managed resource.
type Resource struct {
	Kind      Kind              `yaml:"kind"`
	Name      string            `yaml:"name"`   // fully qualified
	Parent    string            `yaml:"parent"` // containing scope, optional
	Options   map[string]string `yaml:"options"`
	DependsOn []string          `yaml:"dependsOn"`
}

// Addr returns the resource address (kind.name) used in dependency edges
// and outcome reporting.
func (r *Resource) Addr() string {
	return string(r.Kind) + "." + r.Name
}
