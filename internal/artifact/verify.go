package artifact

import (
	"context"
	"fmt"
	"path"
)

// ListFunc enumerates the file names currently present under a storage scope.
type ListFunc func(ctx context.Context, scope string) ([]string, error)

// VerifyPublished cross-checks the published refs against a fresh listing
// of the destination scope and returns the file names that should be there
// but are not. An empty result means the publish pass is verified.
func VerifyPublished(ctx context.Context, list ListFunc, scope string, published []string) ([]string, error) {
	names, err := list(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", scope, err)
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[path.Base(n)] = true
	}

	var missing []string
	for _, want := range published {
		if !present[path.Base(want)] {
			missing = append(missing, want)
		}
	}
	return missing, nil
}
