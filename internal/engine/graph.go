package engine

import (
	"fmt"

	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

// DAG represents a directed acyclic graph of resources for dependency ordering.
type DAG struct {
	nodes    map[string]*dagNode
	declared []string // addresses in declaration order, used for tie-breaking
	order    []string // topological order (provisioning order)
	revOrder []string // reverse topological order (teardown order)
}

type dagNode struct {
	addr     string
	res      *spec.Resource
	edges    []string // resources this node depends on
	revEdges []string // resources that depend on this node
}

// BuildDAG constructs a dependency graph from declared resources. A cyclic
// or dangling dependsOn reference is a configuration error: it is reported
// here, before any platform operation executes.
func BuildDAG(resources []*spec.Resource) (*DAG, error) {
	dag := &DAG{
		nodes: make(map[string]*dagNode),
	}

	for _, res := range resources {
		addr := res.Addr()
		if _, dup := dag.nodes[addr]; dup {
			return nil, platform.Configuration(fmt.Sprintf("resource %s declared twice", addr))
		}
		dag.nodes[addr] = &dagNode{addr: addr, res: res}
		dag.declared = append(dag.declared, addr)
	}

	for _, res := range resources {
		node := dag.nodes[res.Addr()]
		for _, dep := range res.DependsOn {
			if _, ok := dag.nodes[dep]; !ok {
				return nil, platform.Configuration(fmt.Sprintf("resource %s depends on undeclared resource %s", res.Addr(), dep))
			}
			node.edges = append(node.edges, dep)
		}
	}

	for addr, node := range dag.nodes {
		for _, dep := range node.edges {
			dag.nodes[dep].revEdges = append(dag.nodes[dep].revEdges, addr)
		}
	}

	order, err := dag.topoSort()
	if err != nil {
		return nil, err
	}
	dag.order = order

	dag.revOrder = make([]string, len(order))
	for i, addr := range order {
		dag.revOrder[len(order)-1-i] = addr
	}

	return dag, nil
}

// ProvisionOrder returns resources in dependency-respecting creation order.
func (d *DAG) ProvisionOrder() []string {
	return d.order
}

// TeardownOrder returns resources in reverse dependency order, dependents
// before the resources they depend on.
func (d *DAG) TeardownOrder() []string {
	return d.revOrder
}

// Dependencies returns the declared dependencies for a given address.
func (d *DAG) Dependencies(addr string) []string {
	if node, ok := d.nodes[addr]; ok {
		return node.edges
	}
	return nil
}

// Resource returns the declared resource behind an address.
func (d *DAG) Resource(addr string) *spec.Resource {
	if node, ok := d.nodes[addr]; ok {
		return node.res
	}
	return nil
}

// topoSort performs Kahn's algorithm. Ties are broken by declaration order
// so repeated runs execute operations in the same sequence.
func (d *DAG) topoSort() ([]string, error) {
	inDegree := make(map[string]int, len(d.nodes))
	for addr, node := range d.nodes {
		inDegree[addr] = len(node.edges)
	}

	emitted := make(map[string]bool, len(d.nodes))
	sorted := make([]string, 0, len(d.nodes))

	// Resource counts are small, so scanning the declaration list once per
	// emitted node keeps ordering deterministic without a priority queue.
	for len(sorted) < len(d.nodes) {
		progressed := false
		for _, addr := range d.declared {
			if emitted[addr] || inDegree[addr] != 0 {
				continue
			}
			emitted[addr] = true
			sorted = append(sorted, addr)
			for _, dependent := range d.nodes[addr].revEdges {
				inDegree[dependent]--
			}
			progressed = true
			break
		}
		if !progressed {
			return nil, platform.Configuration("dependency cycle detected in resource graph")
		}
	}

	return sorted, nil
}
