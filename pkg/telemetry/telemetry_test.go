package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/macropower/mdpkm/pkg/telemetry"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		endpoint string
		opts     []telemetry.Opt
		wantErr  error
	}{
		"no endpoint": {
			wantErr: telemetry.ErrNoExporter,
		},
		"host and port": {
			endpoint: "localhost:4317",
			opts:     []telemetry.Opt{telemetry.WithInsecure()},
		},
		"url": {
			endpoint: "http://localhost:4317",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tp, err := telemetry.New(t.Context(), tc.endpoint, tc.opts...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, tp)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, tp)
			require.NoError(t, tp.Shutdown(t.Context()))
		})
	}
}

// Install replaces the global tracer provider, so this test is not parallel.
func TestInstall(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()

	tp, err := telemetry.New(t.Context(), "", telemetry.WithExporter(exporter))
	require.NoError(t, err)

	shutdown := telemetry.Install(tp)

	_, span := otel.Tracer("test").Start(t.Context(), "search.Execute")
	span.End()

	require.NoError(t, tp.ForceFlush(t.Context()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "search.Execute", spans[0].Name)

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}

	assert.Equal(t, telemetry.ServiceName, service)

	require.NoError(t, shutdown(t.Context()))
}
