// Package search runs paginated mod searches for one view.
//
// A [Session] never applies a response out of order. Every request carries a
// sequence number taken when it is issued; only the response to the latest
// issued request is applied, and a failed request changes nothing except the
// reported error.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/mdpkm/pkg/log"
	"github.com/macropower/mdpkm/pkg/pagination"
	"github.com/macropower/mdpkm/pkg/platform"
)

const (
	// CategoryNone disables category filtering.
	CategoryNone = "none"

	DefaultPageSize = 20

	tracerName = "github.com/macropower/mdpkm/pkg/search"
)

// ErrSuperseded is returned when a response arrives after a newer request
// was issued. The response is discarded.
var ErrSuperseded = errors.New("search superseded by a newer request")

// Request is an issued search.
type Request struct {
	Platform string           `json:"platform"`
	Query    string           `json:"query"`
	Options  platform.Options `json:"options"`
	Page     int              `json:"page"`
	Seq      uint64           `json:"seq"`
}

// Result is the outcome of executing a [Request].
type Result struct {
	Err      error
	Results  *platform.Results
	Request  Request
	Duration time.Duration
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	Err       error              `json:"-"`
	ID        string             `json:"id"`
	Query     string             `json:"query"`
	Category  string             `json:"category"`
	Platform  string             `json:"platform"`
	Hits      []platform.Project `json:"hits"`
	Window    []pagination.Token `json:"-"`
	State     pagination.State   `json:"state"`
	TotalHits int                `json:"totalHits"`
	Searching bool               `json:"searching"`
}

// Session owns the pagination state of one search view.
type Session struct {
	registry *platform.Registry
	tracer   trace.Tracer
	err      error

	id         string
	query      string
	category   string
	platformID string

	loaders  []string
	versions []string
	hits     []platform.Project

	state     pagination.State
	pending   int
	totalHits int
	issued    uint64
	settled   uint64

	mu sync.Mutex
}

type Opt func(*Session)

// WithPageSize sets the number of hits per page.
func WithPageSize(n int) Opt {
	return func(s *Session) {
		s.state = pagination.NewState(n)
	}
}

// WithPlatform selects the initial platform id.
func WithPlatform(id string) Opt {
	return func(s *Session) {
		s.platformID = id
	}
}

// WithQuery sets the initial query text.
func WithQuery(q string) Opt {
	return func(s *Session) {
		s.query = q
	}
}

// WithCategory sets the initial category. [CategoryNone] or "" disables it.
func WithCategory(c string) Opt {
	return func(s *Session) {
		s.category = normalizeCategory(c)
	}
}

// WithPage sets the page the first request asks for.
func WithPage(p int) Opt {
	return func(s *Session) {
		s.pending = max(p, 1)
	}
}

// WithFilters sets the loader and version filters, usually taken from an
// instance.
func WithFilters(loaders, versions []string) Opt {
	return func(s *Session) {
		s.loaders = slices.Clone(loaders)
		s.versions = slices.Clone(versions)
	}
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(s *Session) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// NewSession creates a new [Session] searching platforms from registry.
func NewSession(registry *platform.Registry, opts ...Opt) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		registry: registry,
		tracer:   otel.Tracer(tracerName),
		category: CategoryNone,
		state:    pagination.NewState(DefaultPageSize),
		pending:  1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.platformID == "" {
		ids := registry.IDs()
		if len(ids) == 0 {
			return nil, fmt.Errorf("new session: %w: no platforms registered", platform.ErrUnknownPlatform)
		}

		s.platformID = ids[0]
	}

	if _, err := registry.Get(s.platformID); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Refresh issues a request for the pending page with the current inputs.
func (s *Session) Refresh() Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.issueLocked()
}

// SetQuery changes the query text and issues a request for page 1.
func (s *Session) SetQuery(q string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q
	s.pending = 1

	return s.issueLocked()
}

// SetCategory changes the category filter and issues a request for page 1.
func (s *Session) SetCategory(c string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.category = normalizeCategory(c)
	s.pending = 1

	return s.issueLocked()
}

// SetPlatform switches platforms and issues a request for page 1.
func (s *Session) SetPlatform(id string) (Request, error) {
	if _, err := s.registry.Get(id); err != nil {
		return Request{}, fmt.Errorf("set platform: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.platformID = id
	s.pending = 1

	return s.issueLocked(), nil
}

// NextPlatform cycles to the next registered platform.
func (s *Session) NextPlatform() Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.platformID = s.registry.Next(s.platformID)
	s.pending = 1

	return s.issueLocked()
}

// Navigate moves the pending page by intent. It returns false, and issues
// nothing, when the target equals the pending page.
func (s *Session) Navigate(i pagination.Intent) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := i.Resolve(s.pending, s.state.TotalPages())
	if target == s.pending {
		return Request{}, false
	}

	s.pending = target

	return s.issueLocked(), true
}

func (s *Session) issueLocked() Request {
	s.issued++

	size := s.state.PageSize

	var categories []string
	if s.category != CategoryNone {
		categories = []string{s.category}
	}

	return Request{
		Seq:      s.issued,
		Platform: s.platformID,
		Query:    s.query,
		Page:     s.pending,
		Options: platform.Options{
			Limit:      size,
			Offset:     (s.pending - 1) * size,
			Loaders:    slices.Clone(s.loaders),
			Versions:   slices.Clone(s.versions),
			Categories: categories,
		},
	}
}

// Execute runs req against its platform. It does not touch session state and
// is safe to call from any goroutine.
func (s *Session) Execute(ctx context.Context, req Request) Result {
	ctx, span := s.tracer.Start(ctx, "search.Execute", trace.WithAttributes(
		attribute.String("search.session", s.id),
		attribute.String("search.platform", req.Platform),
		attribute.Int("search.page", req.Page),
		attribute.Int64("search.seq", int64(req.Seq)), //nolint:gosec // Sequence numbers stay small.
	))
	defer span.End()

	logger := log.WithContext(ctx)
	start := time.Now()
	res := Result{Request: req}

	p, err := s.registry.Get(req.Platform)
	if err == nil {
		res.Results, err = p.Search(ctx, req.Query, req.Options)
	}

	res.Duration = time.Since(start)

	if err != nil {
		res.Err = fmt.Errorf("search %s: %w", req.Platform, err)

		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		logger.WarnContext(ctx, "search failed",
			slog.Uint64("seq", req.Seq),
			slog.String("platform", req.Platform),
			slog.Any("err", err),
		)

		return res
	}

	span.SetAttributes(attribute.Int("search.total_hits", res.Results.TotalHits))
	logger.DebugContext(ctx, "search completed",
		slog.Uint64("seq", req.Seq),
		slog.String("platform", req.Platform),
		slog.String("query", req.Query),
		slog.Int("page", req.Page),
		slog.Int("hits", len(res.Results.Hits)),
		slog.Int("total_hits", res.Results.TotalHits),
		slog.Duration("duration", res.Duration),
	)

	return res
}

// Complete applies res if it answers the latest issued request.
//
// Stale results return [ErrSuperseded] and are dropped. Failed results return
// their error and leave the pagination state, hits and total unchanged.
func (s *Session) Complete(res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Request.Seq != s.issued {
		slog.Debug("discarding stale search result",
			slog.Uint64("seq", res.Request.Seq),
			slog.Uint64("latest", s.issued),
		)

		return fmt.Errorf("%w: seq %d, latest %d", ErrSuperseded, res.Request.Seq, s.issued)
	}

	s.settled = res.Request.Seq

	if res.Err != nil {
		s.err = res.Err
		s.pending = s.state.CurrentPage

		return res.Err
	}

	pageSize := s.state.PageSize
	if res.Results.Limit > 0 {
		pageSize = res.Results.Limit
	}

	s.err = nil
	s.hits = slices.Clone(res.Results.Hits)
	s.totalHits = res.Results.TotalHits
	s.state = pagination.State{
		CurrentPage: res.Request.Page,
		PageSize:    pageSize,
		TotalItems:  res.Results.TotalHits,
	}.Normalize()
	s.pending = s.state.CurrentPage

	return nil
}

// Search issues a request for the current inputs, executes it, and applies
// the result.
func (s *Session) Search(ctx context.Context) (Snapshot, error) {
	return s.Run(ctx, s.Refresh())
}

// Run executes req and applies the result.
func (s *Session) Run(ctx context.Context, req Request) (Snapshot, error) {
	err := s.Complete(s.Execute(ctx, req))

	return s.Snapshot(), err
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:        s.id,
		Query:     s.query,
		Category:  s.category,
		Platform:  s.platformID,
		Hits:      slices.Clone(s.hits),
		TotalHits: s.totalHits,
		State:     s.state,
		Window:    s.state.Window(),
		Searching: s.settled != s.issued,
		Err:       s.err,
	}
}

func normalizeCategory(c string) string {
	if c == "" {
		return CategoryNone
	}

	return c
}
