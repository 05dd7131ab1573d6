package metrics

import (
	"net/url"
	"time"
)

// Config содержит настройки отправки метрик в Pushgateway.
type Config struct {
	Enabled        bool
	PushgatewayURL string
	JobName        string
	Timeout        time.Duration

	// InstanceLabel переопределяет instance label; пусто → hostname.
	InstanceLabel string

	// Project попадает в grouping key, чтобы прогоны разных проектов
	// не перетирали друг друга в Pushgateway.
	Project string
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL == "" {
		return ErrPushgatewayURLRequired
	}
	u, err := url.Parse(c.PushgatewayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		JobName: "findbugs-ci",
		Timeout: 10 * time.Second,
	}
}
