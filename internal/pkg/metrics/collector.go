// Package metrics собирает метрики прогонов анализа и отправляет их
// в Prometheus Pushgateway по завершении команды.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
)

// Collector определяет интерфейс для сбора метрик.
// Реализации: PrometheusCollector и NopCollector.
type Collector interface {
	// RecordCommand фиксирует завершение CLI-команды.
	RecordCommand(command string, duration time.Duration, success bool)

	// RecordAnalysis фиксирует результат прогона движка:
	// outcome — "skipped", "clean", "issues_found" или "failed".
	RecordAnalysis(outcome string, duration time.Duration, findings int)

	// RecordResource фиксирует попытку материализации ресурса.
	// strategy — стратегия, нашедшая ресурс ("classpath", "url", "file")
	// либо "none" при неудаче.
	RecordResource(strategy string, ok bool)

	// Push отправляет метрики. Ошибки отправки логируются, а не возвращаются.
	Push(ctx context.Context) error
}

var (
	ErrPushgatewayURLRequired = errors.New("pushgateway URL is required when metrics enabled")
	ErrPushgatewayURLInvalid  = errors.New("pushgateway URL has invalid format")
	ErrJobNameRequired        = errors.New("job name is required")
	ErrInvalidTimeout         = errors.New("timeout must be positive")
)

// NewCollector возвращает NopCollector при выключенных метриках
// и PrometheusCollector иначе.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NopCollector{}, nil
	}
	return NewPrometheusCollector(config, logger)
}

// NopCollector — no-op реализация Collector.
type NopCollector struct{}

func (NopCollector) RecordCommand(string, time.Duration, bool) {}
func (NopCollector) RecordAnalysis(string, time.Duration, int) {}
func (NopCollector) RecordResource(string, bool)               {}
func (NopCollector) Push(context.Context) error                { return nil }
