// Package memory implements the platform boundary entirely in process.
// It backs the dry-run paths and every engine test, and can simulate the
// platform behaviors the orchestrator has to cope with: spawned services
// with generated names, drops refused for live dependents, injected
// failures per resource.
package memory

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

type object struct {
	kind  spec.Kind
	name  string
	scope string
	attrs map[string]string
}

// Provider is an in-memory platform.
type Provider struct {
	mu      sync.Mutex
	objects map[string]*object // kind|name
	files   map[string][]byte  // storage path -> content

	// Failure injection, keyed by resource name.
	failCreate map[string]error
	failDrop   map[string]error

	creates int // total successful create mutations, for idempotence checks
}

// New returns an empty in-memory platform.
func New() *Provider {
	return &Provider{
		objects:    make(map[string]*object),
		files:      make(map[string][]byte),
		failCreate: make(map[string]error),
		failDrop:   make(map[string]error),
	}
}

func key(kind spec.Kind, name string) string {
	return string(kind) + "|" + name
}

// Exists implements platform.Client.
func (p *Provider) Exists(_ context.Context, kind spec.Kind, name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.objects[key(kind, name)]
	return ok, nil
}

// Create implements platform.Client with the kind's create mode.
func (p *Provider) Create(_ context.Context, res *spec.Resource) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failCreate[res.Name]; err != nil {
		return err
	}

	k := key(res.Kind, res.Name)
	if _, ok := p.objects[k]; ok && res.Kind.CreateMode() == spec.CreateIfAbsent {
		return nil
	}

	attrs := make(map[string]string, len(res.Options))
	for name, value := range res.Options {
		attrs[name] = value
	}
	p.objects[k] = &object{kind: res.Kind, name: res.Name, scope: res.Parent, attrs: attrs}
	p.creates++
	return nil
}

// Drop implements platform.Client with if-exists semantics. Dropping an
// owner that still has objects whose managed-by attribute names it is
// refused, matching the platform's live-dependent rule.
func (p *Provider) Drop(_ context.Context, kind spec.Kind, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failDrop[name]; err != nil {
		return err
	}

	k := key(kind, name)
	if _, ok := p.objects[k]; !ok {
		return nil
	}

	for _, obj := range p.objects {
		if obj.attrs[platform.AttrManagedBy] == name {
			return platform.DependencyBlocked("memory.drop", name, obj.name)
		}
	}

	delete(p.objects, k)
	return nil
}

// List implements platform.Client.
func (p *Provider) List(_ context.Context, kind spec.Kind, scope string) ([]platform.Object, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []platform.Object
	for _, obj := range p.objects {
		if obj.kind != kind {
			continue
		}
		if scope != "" && obj.scope != scope {
			continue
		}
		out = append(out, platform.Object{Kind: obj.kind, Name: obj.name})
	}
	return out, nil
}

// Attribute implements platform.Client.
func (p *Provider) Attribute(_ context.Context, kind spec.Kind, name, attr string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	obj, ok := p.objects[key(kind, name)]
	if !ok {
		return "", platform.NotFound("memory.attribute", name)
	}
	return obj.attrs[attr], nil
}

// Alter implements platform.Client.
func (p *Provider) Alter(_ context.Context, kind spec.Kind, name string, options map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	obj, ok := p.objects[key(kind, name)]
	if !ok {
		return platform.NotFound("memory.alter", name)
	}
	for k, v := range options {
		obj.attrs[k] = v
	}
	return nil
}

// Put implements platform.Client with overwrite semantics.
func (p *Provider) Put(_ context.Context, filePath string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files[filePath] = append([]byte(nil), data...)
	return nil
}

// ListFiles implements platform.Client.
func (p *Provider) ListFiles(_ context.Context, scope string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var names []string
	for filePath := range p.files {
		if strings.HasPrefix(filePath, scope+"/") {
			names = append(names, path.Base(filePath))
		}
	}
	return names, nil
}

// SpawnService registers a service under a generated-looking name with a
// managed-by back-reference to owner, the way a running model does.
func (p *Provider) SpawnService(owner *spec.Resource, suffix string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := fmt.Sprintf("%s_SERVICE_%s", owner.Name, suffix)
	p.objects[key(spec.KindService, name)] = &object{
		kind:  spec.KindService,
		name:  name,
		scope: owner.Parent,
		attrs: map[string]string{platform.AttrManagedBy: owner.Name},
	}
	return name
}

// FailCreate injects an error for future creates of the named resource.
func (p *Provider) FailCreate(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failCreate[name] = err
}

// FailDrop injects an error for future drops of the named resource.
func (p *Provider) FailDrop(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failDrop[name] = err
}

// CreateCount returns the number of create mutations applied so far.
func (p *Provider) CreateCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creates
}

// ObjectCount returns the number of live objects, services included.
func (p *Provider) ObjectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objects)
}
