package prom

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/tapegraph/pkg/observability"
)

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OnSimulateComplete(ctx, "accepted", 12, time.Millisecond, nil)
	m.OnSimulateComplete(ctx, "rejected", 3, time.Millisecond, errors.New("boom"))
	m.OnPebbleComplete(ctx, "time", 8, 3, time.Millisecond, nil)
	m.OnCacheHit(ctx, "pebble")
	m.OnCacheMiss(ctx, "pebble")
	m.OnCacheMiss(ctx, "pebble")
	m.OnCacheSet(ctx, "pebble", 100)
	m.OnRequest(ctx, "POST", "/v1/pebble", 200, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pebblings.WithLabelValues("time", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("pebble", "miss")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.cacheBytes.WithLabelValues("pebble")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/v1/pebble", "200")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.OnCacheHit(context.Background(), "trace")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `tapegraph_cache_lookups_total{key_type="trace",result="hit"} 1`))
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Register()
	assert.Same(t, m, observability.Pipeline())
	assert.Same(t, m, observability.Cache())
	assert.Same(t, m, observability.Server())
}
