package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/logging"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) Config {
	return Config{
		Enabled:        true,
		PushgatewayURL: url,
		JobName:        "findbugs-ci",
		Timeout:        10 * time.Second,
		InstanceLabel:  "ci-agent-1",
	}
}

func TestPrometheusCollector_RecordAnalysis(t *testing.T) {
	collector, err := NewPrometheusCollector(testConfig("http://localhost:9091"), logging.NewNopLogger())
	require.NoError(t, err)

	collector.RecordAnalysis("issues_found", 42*time.Second, 7)
	collector.RecordAnalysis("clean", 3*time.Second, 0)
	collector.RecordAnalysis("clean", 4*time.Second, 0)

	assert.Equal(t, float64(2), promtest.ToFloat64(collector.analysisRuns.WithLabelValues("clean")))
	assert.Equal(t, float64(1), promtest.ToFloat64(collector.analysisRuns.WithLabelValues("issues_found")))
	assert.Equal(t, float64(0), promtest.ToFloat64(collector.findings), "gauge хранит последнее значение")
}

func TestPrometheusCollector_RecordResourceAndCommand(t *testing.T) {
	collector, err := NewPrometheusCollector(testConfig("http://localhost:9091"), logging.NewNopLogger())
	require.NoError(t, err)

	collector.RecordResource("classpath", true)
	collector.RecordResource("none", false)
	collector.RecordCommand("analyze", time.Second, true)

	assert.Equal(t, float64(1), promtest.ToFloat64(collector.resources.WithLabelValues("classpath", "success")))
	assert.Equal(t, float64(1), promtest.ToFloat64(collector.resources.WithLabelValues("none", "error")))

	families, err := collector.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["findbugs_command_duration_seconds"])
	assert.True(t, names["findbugs_resources_total"])
}

func TestPrometheusCollector_Push(t *testing.T) {
	var mu sync.Mutex
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Project = "petclinic"
	collector, err := NewPrometheusCollector(cfg, logging.NewNopLogger())
	require.NoError(t, err)

	collector.RecordAnalysis("clean", time.Second, 0)
	require.NoError(t, collector.Push(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/findbugs-ci"), path)
	assert.Contains(t, path, "project/petclinic")
}

func TestPrometheusCollector_PushErrorIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	collector, err := NewPrometheusCollector(testConfig(server.URL), logging.NewNopLogger())
	require.NoError(t, err)

	assert.NoError(t, collector.Push(context.Background()))
}

func TestPrometheusCollector_PushCancelled(t *testing.T) {
	collector, err := NewPrometheusCollector(testConfig("http://127.0.0.1:1"), logging.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, collector.Push(ctx))
}

func TestNewCollector(t *testing.T) {
	c, err := NewCollector(Config{}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, NopCollector{}, c)
	assert.NoError(t, c.Push(context.Background()))

	_, err = NewCollector(Config{Enabled: true}, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrPushgatewayURLRequired)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"disabled is always valid", func(c *Config) { c.Enabled = false; c.PushgatewayURL = "" }, nil},
		{"missing url", func(c *Config) { c.PushgatewayURL = "" }, ErrPushgatewayURLRequired},
		{"invalid url", func(c *Config) { c.PushgatewayURL = "pushgateway" }, ErrPushgatewayURLInvalid},
		{"missing job", func(c *Config) { c.JobName = "" }, ErrJobNameRequired},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("http://pushgateway:9091")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeLabel("a\nb"))
	assert.Equal(t, maxLabelLength, len([]rune(sanitizeLabel(strings.Repeat("я", 300)))))
	assert.Equal(t, "analyze", sanitizeLabel("analyze"))
}
