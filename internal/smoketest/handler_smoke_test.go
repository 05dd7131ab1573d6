package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/findbugs-ci/internal/command"
	"github.com/Kargones/findbugs-ci/internal/config"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
)

// smokeResult — минимальная структура для валидации JSON output.
type smokeResult struct {
	Status  string `json:"status"`
	Command string `json:"command"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error,omitempty"`
	DryRun   bool           `json:"dry_run,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

// newApp собирает App через InitializeApp для проекта во временной
// директории; stdout команды пишется в буфер.
func newApp(t *testing.T) (*di.App, *bytes.Buffer) {
	t.Helper()
	t.Setenv(constants.EnvOutputFormat, "json")

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "target", "classes"), 0o755))
	cfg := config.DefaultConfig()
	cfg.Project.Name = "smoke"
	cfg.Project.BaseDir = base
	cfg.Repository.Local = filepath.Join(base, "m2")

	app, err := di.InitializeApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	var out bytes.Buffer
	app.Stdout = &out
	return app, &out
}

func decodeSingle(t *testing.T, out *bytes.Buffer) smokeResult {
	t.Helper()
	var r smokeResult
	dec := json.NewDecoder(out)
	require.NoError(t, dec.Decode(&r), "stdout должен быть JSON")
	assert.False(t, dec.More(), "в stdout не должно быть ничего после JSON")
	return r
}

func TestSmoke_EveryCommandWritesJSON(t *testing.T) {
	// dry-run: analyze не запускает движок
	t.Setenv(constants.EnvDryRun, "true")

	for _, name := range command.Names() {
		t.Run(name, func(t *testing.T) {
			h, ok := command.Get(name)
			require.True(t, ok)
			app, out := newApp(t)

			require.NoError(t, h.Execute(context.Background(), app))

			r := decodeSingle(t, out)
			assert.Equal(t, "success", r.Status)
			assert.NotEmpty(t, r.Command)
			assert.Equal(t, app.TraceID, r.Metadata["trace_id"])
			assert.Equal(t, constants.APIVersion, r.Metadata["api_version"])
		})
	}
}

func TestSmoke_AnalyzeErrorIsJSON(t *testing.T) {
	t.Setenv(constants.EnvDryRun, "")
	t.Setenv(constants.EnvProgress, "off")

	h, ok := command.Get(constants.ActAnalyze)
	require.True(t, ok)
	app, out := newApp(t)
	app.Config.Analysis.ExcludeFilterFile = "config/missing.xml"

	require.Error(t, h.Execute(context.Background(), app))

	r := decodeSingle(t, out)
	assert.Equal(t, "error", r.Status)
	assert.Equal(t, constants.ActAnalyze, r.Command)
	require.NotNil(t, r.Error)
	assert.Equal(t, "RESOURCE.NOT_FOUND", r.Error.Code)
}
