// Package dryrun определяет режим dry-run: план анализа выводится
// без разрешения ресурсов и запуска движка.
package dryrun

import (
	"os"
	"strings"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
)

// IsDryRun возвращает true, если FB_DRY_RUN равна "true" (без учёта регистра) или "1".
func IsDryRun() bool {
	val := os.Getenv(constants.EnvDryRun)
	return strings.EqualFold(val, "true") || val == "1"
}

// NewPlan создаёт план для команды. commandLine маскируется через
// urlutil.MaskArgs: ссылки на ресурсы могут содержать учётные данные.
func NewPlan(command string, commandLine []string) *output.Plan {
	return &output.Plan{
		Command:     command,
		CommandLine: urlutil.MaskArgs(commandLine),
	}
}
