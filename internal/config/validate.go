package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
	"golang.org/x/text/encoding/htmlindex"
)

// Validate проверяет секции, которыми владеет config. Параметры движка
// (effort, threshold, maxRank, maxHeap, timeout) проверяет analysis.Build.
func (c *Config) Validate() error {
	var errs []error

	switch c.Analysis.EmptyResource {
	case EmptyResourceKeep, EmptyResourceSkip, EmptyResourceFail:
	default:
		errs = append(errs, invalid("analysis.emptyResource", c.Analysis.EmptyResource, "must be one of keep, skip, fail"))
	}
	if c.Project.BaseDir == "" {
		errs = append(errs, invalid("project.baseDir", "", "must not be empty"))
	}
	if c.Project.BuildDir == "" {
		errs = append(errs, invalid("project.buildDir", "", "must not be empty"))
	}
	if c.Resources.HTTPTimeout <= 0 {
		errs = append(errs, invalid("resources.httpTimeout", c.Resources.HTTPTimeout.String(), "must be positive"))
	}
	if len(c.Analysis.Plugins) > 0 && c.Repository.Local == "" {
		errs = append(errs, invalid("repository.local", "", "required when analysis.plugins is set"))
	}
	if c.Repository.VerifySignatures && c.Repository.Keyring == "" {
		errs = append(errs, invalid("repository.keyring", "", "required when verifySignatures is on"))
	}
	if c.Report.OutputEncoding != "" {
		if _, err := htmlindex.Get(c.Report.OutputEncoding); err != nil {
			errs = append(errs, invalid("report.outputEncoding", c.Report.OutputEncoding, "unsupported encoding"))
		}
	}
	if c.History.Enabled {
		if c.History.Server == "" || c.History.Database == "" {
			errs = append(errs, invalid("history", "", "server and database are required when enabled"))
		}
		if c.History.Port <= 0 || c.History.Port > 65535 {
			errs = append(errs, invalid("history.port", strconv.Itoa(c.History.Port), "must be a TCP port"))
		}
	}

	ls := c.LoggingSettings()
	if err := ls.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	ms := c.MetricsSettings()
	if err := ms.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	ts := c.TracingSettings("")
	if err := ts.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}

	return errors.Join(errs...)
}

func invalid(field, value, reason string) error {
	return &analysis.InvalidConfigurationError{Field: field, Value: value, Reason: reason}
}
