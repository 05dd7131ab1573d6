package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
	"github.com/Kargones/findbugs-ci/internal/pkg/testutil"
)

// isolate запускает тест в пустой директории без внешней конфигурации.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(constants.EnvConfigFile, "")
	t.Setenv(constants.EnvDotEnvFile, "")
	t.Setenv(constants.EnvCommand, "")
	t.Setenv(constants.EnvOutputFormat, "")
	t.Setenv(constants.EnvDryRun, "")
}

func TestCommandName(t *testing.T) {
	t.Setenv(constants.EnvCommand, "")
	assert.Equal(t, constants.ActHelp, commandName(nil))
	assert.Equal(t, constants.ActVersion, commandName([]string{"version"}))

	t.Setenv(constants.EnvCommand, constants.ActAnalyze)
	assert.Equal(t, constants.ActAnalyze, commandName(nil))
	assert.Equal(t, constants.ActVersion, commandName([]string{"version"}), "аргумент важнее FB_COMMAND")
}

func TestRun_Version(t *testing.T) {
	isolate(t)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run([]string{constants.ActVersion})
	})
	assert.Equal(t, constants.ExitOK, code)
	assert.Contains(t, out, "findbugs-ci version ")
}

func TestRun_DefaultsToHelp(t *testing.T) {
	isolate(t)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run(nil)
	})
	assert.Equal(t, constants.ExitOK, code)
	assert.Contains(t, out, constants.ActAnalyze)
	assert.Contains(t, out, constants.ActFindbugsLegacy)
}

func TestRun_UnknownCommand(t *testing.T) {
	isolate(t)
	t.Setenv(constants.EnvOutputFormat, output.FormatJSON)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run([]string{"no-such-command"})
	})
	assert.Equal(t, constants.ExitCommandFailure, code)

	var result output.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, output.StatusError, result.Status)
	require.NotNil(t, result.Error)
	assert.Equal(t, apperrors.ErrCommandNotFound, result.Error.Code)
}

func TestRun_ConfigFailure(t *testing.T) {
	isolate(t)
	t.Setenv(constants.EnvConfigFile, "missing.yaml")

	assert.Equal(t, constants.ExitConfigFailure, run([]string{constants.ActVersion}))
}

func TestRun_AnalyzeConfigurationError(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join("target", "classes"), 0o755))
	t.Setenv("FB_INCLUDE_FILTER", "config/missing.xml")
	t.Setenv(constants.EnvOutputFormat, output.FormatJSON)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run([]string{constants.ActAnalyze})
	})
	assert.Equal(t, constants.ExitCommandFailure, code)
	assert.Contains(t, out, apperrors.ErrResourceNotFound)
}
