package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/macropower/mdpkm/pkg/version"
)

const DefaultTimeout = 15 * time.Second

// Transport performs JSON GET requests against a platform API.
//
// Requests are never aborted once sent. A canceled context is only honored
// before the request goes out.
type Transport struct {
	client    *fasthttp.Client
	userAgent string
	timeout   time.Duration
}

type TransportOpt func(*Transport)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) TransportOpt {
	return func(t *Transport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithDial overrides how connections are opened. Used with in-memory
// listeners in tests.
func WithDial(dial func(addr string) (net.Conn, error)) TransportOpt {
	return func(t *Transport) {
		t.client.Dial = dial
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) TransportOpt {
	return func(t *Transport) {
		t.userAgent = ua
	}
}

// NewTransport creates a new [Transport].
func NewTransport(opts ...TransportOpt) *Transport {
	t := &Transport{
		client: &fasthttp.Client{
			Name:                     "mdpkm",
			NoDefaultUserAgentHeader: true,
			MaxIdleConnDuration:      30 * time.Second,
		},
		userAgent: "macropower/mdpkm/" + version.GetVersion(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// GetJSON sends a GET request to uri and decodes the JSON body into v.
func (t *Transport) GetJSON(ctx context.Context, uri string, headers map[string]string, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("get %s: %w", uri, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(t.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	start := time.Now()

	err := t.client.DoTimeout(req, resp, t.timeout)
	if err != nil {
		return fmt.Errorf("get %s: %w", uri, err)
	}

	slog.DebugContext(ctx, "platform request",
		slog.String("uri", uri),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("duration", time.Since(start)),
	)

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return fmt.Errorf("get %s: %w: %d %s", uri, ErrUnexpectedStatus, code, truncate(string(resp.Body()), 200))
	}

	err = json.Unmarshal(resp.Body(), v)
	if err != nil {
		return fmt.Errorf("decode response from %s: %w", uri, err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "…"
}
