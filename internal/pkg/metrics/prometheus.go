package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "findbugs"

// PrometheusCollector реализует Collector с Prometheus метриками.
//
// Регистрируемые метрики:
//   - findbugs_command_duration_seconds{command,status}
//   - findbugs_analysis_duration_seconds{outcome}
//   - findbugs_analysis_runs_total{outcome}
//   - findbugs_findings (gauge, последнее значение)
//   - findbugs_resources_total{strategy,status}
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry
	instance string

	commandDuration  *prometheus.HistogramVec
	analysisDuration *prometheus.HistogramVec
	analysisRuns     *prometheus.CounterVec
	findings         prometheus.Gauge
	resources        *prometheus.CounterVec
}

// NewPrometheusCollector создаёт PrometheusCollector с собственным registry.
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для metrics instance label", "error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	// до 10 минут: таймаут движка по умолчанию
	buckets := []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200}

	c := &PrometheusCollector{
		config:   config,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		instance: instance,
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of CLI command execution in seconds",
			Buckets:   buckets,
		}, []string{"command", "status"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analysis engine runs in seconds",
			Buckets:   buckets,
		}, []string{"outcome"}),
		analysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Total number of analysis runs by outcome",
		}, []string{"outcome"}),
		findings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "findings",
			Help:      "Number of findings reported by the last analysis run",
		}),
		resources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_total",
			Help:      "Resource materialisation attempts by strategy and status",
		}, []string{"strategy", "status"}),
	}

	for _, col := range []prometheus.Collector{
		c.commandDuration, c.analysisDuration, c.analysisRuns, c.findings, c.resources,
	} {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}
	return c, nil
}

// maxLabelLength ограничивает длину значения label.
const maxLabelLength = 128

// sanitizeLabel заменяет контрольные символы и обрезает значение по рунам.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// RecordCommand реализует Collector.
func (c *PrometheusCollector) RecordCommand(command string, duration time.Duration, success bool) {
	c.commandDuration.WithLabelValues(sanitizeLabel(command), statusLabel(success)).Observe(duration.Seconds())
}

// RecordAnalysis реализует Collector.
func (c *PrometheusCollector) RecordAnalysis(outcome string, duration time.Duration, findings int) {
	outcome = sanitizeLabel(outcome)
	c.analysisDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	c.analysisRuns.WithLabelValues(outcome).Inc()
	c.findings.Set(float64(findings))
}

// RecordResource реализует Collector.
func (c *PrometheusCollector) RecordResource(strategy string, ok bool) {
	c.resources.WithLabelValues(sanitizeLabel(strategy), statusLabel(ok)).Inc()
}

// Push отправляет метрики в Pushgateway. Всегда возвращает nil:
// сбой отправки метрик не должен влиять на код выхода сборки.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if ctx.Err() != nil {
		c.logger.Debug("metrics push отменён")
		return nil
	}

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)
	if c.config.Project != "" {
		pusher = pusher.Grouping("project", sanitizeLabel(c.config.Project))
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	masked := urlutil.MaskURL(c.config.PushgatewayURL)
	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway", "error", err.Error(), "url", masked)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway", "url", masked, "job", c.config.JobName)
	return nil
}

// Registry возвращает внутренний registry (для тестов и отладки).
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
