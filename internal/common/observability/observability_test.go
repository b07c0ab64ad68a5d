package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"financial-health-workers/internal/common/metrics"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsToExporter(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	obs := New("test-service", WithRegisterer(promclient.NewRegistry()), WithSpanExporter(exp))
	defer obs.Shutdown()

	ctx, parent := obs.StartSpan(context.Background(), "calculate-health-score")
	_, child := obs.StartSpan(ctx, "engine.calculate", attribute.Int("score", 58))
	child.End()
	parent.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "engine.calculate", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].Parent.TraceID())
	assert.Contains(t, spans[0].Attributes, attribute.Int("score", 58))
}

func TestMetrics_ExportedThroughRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("test-service", WithRegisterer(reg))
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "calculate-health-score", "completed")
	obs.RecordJobDuration(ctx, "calculate-health-score", 120*time.Millisecond, "completed")
	obs.RecordScore(ctx, 58, "individual")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["jobs_processed_total"], "got %v", names)
	assert.True(t, names["jobs_duration_milliseconds"], "got %v", names)
	assert.True(t, names["health_score_recorded"], "got %v", names)
	assert.False(t, names["health_score"], "otel must not shadow the worker histogram")
}

// The worker manager registers both the otel exporter and the promauto
// vectors on the default registry; every family must appear once.
func TestMetrics_DefaultRegistryScrapeHasUniqueFamilies(t *testing.T) {
	obs := New("test-service")
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordScore(ctx, 58, "individual")
	obs.RecordJobProcessed(ctx, "calculate-health-score", "completed")
	metrics.ObserveReport("individual", "fair", 58, map[string]int{"savingsRate": 60}, false)

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "# TYPE ") {
			seen[strings.Fields(line)[2]]++
		}
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "duplicate TYPE line for %s", name)
	}
	assert.Contains(t, seen, "health_score")
	assert.Contains(t, seen, "health_score_recorded")
}

func TestNilObservability_IsSafe(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartSpan(context.Background(), "noop")
	span.End()

	assert.NotNil(t, ctx)
	obs.RecordJobProcessed(ctx, "x", "completed")
	obs.RecordScore(ctx, 10, "couple")
	obs.Shutdown()
}
