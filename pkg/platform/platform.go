// Package platform defines the contract for mod-hosting services and the
// normalized project model shared by all of them.
package platform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrUnknownPlatform  = errors.New("unknown platform")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDuplicate        = errors.New("platform already registered")
)

// Platform searches a mod-hosting service.
type Platform interface {
	ID() string
	DisplayName() string
	Search(ctx context.Context, query string, opts Options) (*Results, error)
}

// Options narrows a search. Empty slices mean "no filter".
type Options struct {
	Loaders    []string `json:"loaders,omitempty"`
	Versions   []string `json:"versions,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
}

// Results is one page of search hits.
type Results struct {
	Hits      []Project `json:"hits"`
	TotalHits int       `json:"totalHits"`
	Limit     int       `json:"limit"`
}

// Project is a search hit, normalized across platforms.
type Project struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug,omitempty"`
	Icon       string   `json:"icon,omitempty"`
	Type       string   `json:"type,omitempty"`
	Title      string   `json:"title"`
	Author     string   `json:"author,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	URL        string   `json:"url,omitempty"`
	Source     string   `json:"source"`
	Categories []string `json:"categories,omitempty"`
	Downloads  int64    `json:"downloads"`
}

// Normalize fills Title from Slug when the platform omitted it.
func (p Project) Normalize() Project {
	if p.Title == "" {
		p.Title = p.Slug
	}

	return p
}

// VersionFilters returns the game version plus its release line, e.g.
// "1.20.1" -> ["1.20.1", "1.20"]. The release line is never cut shorter
// than four characters.
func VersionFilters(version string) []string {
	if version == "" {
		return nil
	}

	cut := max(4, strings.LastIndex(version, "."))
	line := version
	if cut < len(version) {
		line = version[:cut]
	}

	if line == version {
		return []string{version}
	}

	return []string{version, line}
}

// Registry holds platforms by id in registration order.
type Registry struct {
	byID  map[string]Platform
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a [Registry] holding ps.
func NewRegistry(ps ...Platform) (*Registry, error) {
	r := &Registry{byID: map[string]Platform{}}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds p. Ids are unique.
func (r *Registry) Register(p Platform) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.ID())
	}

	r.byID[p.ID()] = p
	r.order = append(r.order, p.ID())

	return nil
}

// Get returns the platform with the given id.
//
//nolint:ireturn // Registry of interface values.
func (r *Registry) Get(id string) (Platform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPlatform, id, strings.Join(r.order, ", "))
	}

	return p, nil
}

// IDs returns platform ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Next returns the id registered after id, wrapping around.
func (r *Registry) Next(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return id
	}

	i := slices.Index(r.order, id)

	return r.order[(i+1)%len(r.order)]
}
