package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/search"
	"github.com/macropower/mdpkm/pkg/version"
)

const (
	tracerName = "github.com/macropower/mdpkm/pkg/mcp"

	shutdownTimeout = 5 * time.Second
)

// Server implements the MCP server for mdpkm.
type Server struct {
	registry *platform.Registry
	server   *mcp.Server
	tp       trace.TracerProvider
	wireLog  io.Writer
	address  string
	platform string
	loaders  []string
	versions []string
	pageSize int
}

type Opt func(*Server)

// WithPageSize sets the number of hits per page.
func WithPageSize(n int) Opt {
	return func(s *Server) {
		s.pageSize = n
	}
}

// WithPlatform sets the platform used when a call does not name one.
func WithPlatform(id string) Opt {
	return func(s *Server) {
		s.platform = id
	}
}

// WithFilters sets the loader and version filters used when a call does not
// name its own.
func WithFilters(loaders, versions []string) Opt {
	return func(s *Server) {
		s.loaders = loaders
		s.versions = versions
	}
}

func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(s *Server) {
		s.tp = tp
	}
}

// WithWireLog logs every JSON-RPC message exchanged over stdio to w.
func WithWireLog(w io.Writer) Opt {
	return func(s *Server) {
		s.wireLog = w
	}
}

// NewServer creates a new MCP server searching platforms from registry.
// An empty address serves over stdio.
func NewServer(address string, registry *platform.Registry, opts ...Opt) (*Server, error) {
	s := &Server{
		address:  address,
		registry: registry,
		tp:       otel.GetTracerProvider(),
		pageSize: search.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	ids := registry.IDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no platforms registered", platform.ErrUnknownPlatform)
	}

	if s.platform == "" {
		s.platform = ids[0]
	}

	if _, err := registry.Get(s.platform); err != nil {
		return nil, fmt.Errorf("default platform: %w", err)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	tracer := s.tp.Tracer(tracerName)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_mods",
		Description: searchModsDescription,
	}, WithTracing(tracer, s.handleSearchMods))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_platforms",
		Description: listPlatformsDescription,
	}, WithTracing(tracer, s.handleListPlatforms))
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the MCP server until ctx is canceled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shut down MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	var t mcp.Transport = &mcp.StdioTransport{}
	if s.wireLog != nil {
		t = &mcp.LoggingTransport{Transport: t, Writer: s.wireLog}
	}

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
