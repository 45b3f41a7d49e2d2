// Package static implements an in-memory [platform.Platform].
package static

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/macropower/mdpkm/pkg/platform"
)

const (
	ID          = "offline"
	DisplayName = "Offline catalogue"
)

// Entry is a catalogue project with the loaders and game versions it
// supports.
type Entry struct {
	Loaders  []string
	Versions []string
	Project  platform.Project
}

// SearchFunc can replace the default matching, e.g. to inject errors or delays.
type SearchFunc func(ctx context.Context, query string, opts platform.Options) (*platform.Results, error)

// Platform serves searches from a fixed catalogue.
type Platform struct {
	override SearchFunc
	id       string
	name     string
	entries  []Entry
	calls    []platform.Options
	mu       sync.Mutex
}

type Opt func(*Platform)

// WithID overrides the platform id.
func WithID(id string) Opt {
	return func(p *Platform) {
		p.id = id
	}
}

// WithSearchFunc replaces catalogue matching.
func WithSearchFunc(fn SearchFunc) Opt {
	return func(p *Platform) {
		p.override = fn
	}
}

// New creates a new [Platform] serving entries.
func New(entries []Entry, opts ...Opt) *Platform {
	p := &Platform{
		id:      ID,
		name:    DisplayName,
		entries: entries,
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := range p.entries {
		p.entries[i].Project.Source = p.id
		p.entries[i].Project = p.entries[i].Project.Normalize()
	}

	return p
}

func (p *Platform) ID() string          { return p.id }
func (p *Platform) DisplayName() string { return p.name }

// Calls returns the options of every search so far.
func (p *Platform) Calls() []platform.Options {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.calls)
}

// Search implements [platform.Platform].
func (p *Platform) Search(ctx context.Context, query string, opts platform.Options) (*platform.Results, error) {
	p.mu.Lock()
	p.calls = append(p.calls, opts)
	p.mu.Unlock()

	if p.override != nil {
		return p.override(ctx, query, opts)
	}

	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck // Context errors are returned as-is.
	}

	var matched []platform.Project

	q := strings.ToLower(strings.TrimSpace(query))
	for _, e := range p.entries {
		if e.matches(q, opts) {
			matched = append(matched, e.Project)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = len(matched)
	}

	start := min(max(opts.Offset, 0), len(matched))
	end := min(start+limit, len(matched))

	return &platform.Results{
		Hits:      slices.Clone(matched[start:end]),
		TotalHits: len(matched),
		Limit:     max(limit, 1),
	}, nil
}

func (e Entry) matches(q string, opts platform.Options) bool {
	if q != "" &&
		!strings.Contains(strings.ToLower(e.Project.Title), q) &&
		!strings.Contains(strings.ToLower(e.Project.Summary), q) {
		return false
	}

	if len(opts.Loaders) > 0 && len(e.Loaders) > 0 && !overlaps(opts.Loaders, e.Loaders) {
		return false
	}

	if len(opts.Versions) > 0 && len(e.Versions) > 0 && !overlaps(opts.Versions, e.Versions) {
		return false
	}

	for _, cat := range opts.Categories {
		if !slices.Contains(e.Project.Categories, cat) {
			return false
		}
	}

	return true
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}

	return false
}
