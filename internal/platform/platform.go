package platform

import (
	"context"

	"github.com/frostline-io/frostline/internal/spec"
)

// AttrManagedBy is the back-reference attribute a spawned resource carries,
// naming the fully-qualified resource that manages it. Dependent discovery
// filters scope listings on this attribute.
const AttrManagedBy = "managed-by"

// Object is one entry of a scope listing.
type Object struct {
	Kind spec.Kind
	Name string // fully qualified
}

// Client is the synchronous request/response boundary to the managing
// platform. The current resource set on the platform side is the only
// persisted state; every implementation must honor if-exists / if-absent
// semantics so runs can be repeated safely.
type Client interface {
	// Exists reports whether the named resource currently exists.
	Exists(ctx context.Context, kind spec.Kind, name string) (bool, error)

	// Create provisions the resource honoring its kind's create mode:
	// create-or-replace for config-only kinds, create-if-absent for kinds
	// that hold data. Creating an already-present if-absent resource is a
	// no-op, not an error.
	Create(ctx context.Context, res *spec.Resource) error

	// Drop removes the resource with if-exists semantics: dropping an
	// absent resource returns nil. A drop refused because live dependents
	// reference the resource returns ErrDependencyBlocked.
	Drop(ctx context.Context, kind spec.Kind, name string) error

	// List enumerates all resources of a kind in the given containing
	// scope. An empty scope lists account-wide.
	List(ctx context.Context, kind spec.Kind, scope string) ([]Object, error)

	// Attribute reads a single named attribute of a resource. Returns
	// ErrNotFound if the resource is gone, an empty string if the
	// attribute is unset. Values are returned as the platform reports
	// them: an attribute naming another resource may carry the bare name
	// rather than the qualified one, and callers must accept both forms.
	Attribute(ctx context.Context, kind spec.Kind, name, attr string) (string, error)

	// Alter applies the given option changes to an existing resource.
	Alter(ctx context.Context, kind spec.Kind, name string, options map[string]string) error

	// Put writes bytes to a managed-storage path with overwrite semantics.
	Put(ctx context.Context, path string, data []byte) error

	// ListFiles enumerates file names currently under a managed-storage
	// scope, used for post-publish verification.
	ListFiles(ctx context.Context, scope string) ([]string, error)
}
