package vectorstore

import (
	"fmt"
	"sort"
)

// Collections resolves logical purposes (e.g. "default", "chunks_500") to
// concrete collection names. Resolution is always by name; there is no
// positional fallback tied to configuration ordering.
type Collections struct {
	byPurpose      map[string]string
	defaultPurpose string
}

// NewCollections builds a resolver from a purpose→name mapping and the
// purpose to use when callers do not pick one explicitly.
func NewCollections(byPurpose map[string]string, defaultPurpose string) (*Collections, error) {
	if len(byPurpose) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrUnknownCollection)
	}
	if _, ok := byPurpose[defaultPurpose]; !ok {
		return nil, fmt.Errorf("%w: default purpose %q not in mapping", ErrUnknownCollection, defaultPurpose)
	}

	m := make(map[string]string, len(byPurpose))
	for k, v := range byPurpose {
		m[k] = v
	}
	return &Collections{byPurpose: m, defaultPurpose: defaultPurpose}, nil
}

// Resolve returns the collection name for a purpose. An empty purpose
// resolves to the configured default.
func (c *Collections) Resolve(purpose string) (string, error) {
	if purpose == "" {
		purpose = c.defaultPurpose
	}
	name, ok := c.byPurpose[purpose]
	if !ok {
		return "", fmt.Errorf("%w: purpose %q", ErrUnknownCollection, purpose)
	}
	return name, nil
}

// Default returns the collection name of the default purpose.
func (c *Collections) Default() string {
	return c.byPurpose[c.defaultPurpose]
}

// Names returns all configured collection names, sorted and deduplicated.
// Used by the compare command to report across every collection.
func (c *Collections) Names() []string {
	seen := make(map[string]struct{}, len(c.byPurpose))
	names := make([]string, 0, len(c.byPurpose))
	for _, name := range c.byPurpose {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
