package version

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/findbugs-ci/internal/command"
	"github.com/Kargones/findbugs-ci/internal/config"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
)

func newApp(format string) (*di.App, *bytes.Buffer) {
	var out bytes.Buffer
	return &di.App{
		Config:       config.DefaultConfig(),
		Logger:       logging.NopLogger{},
		OutputWriter: output.NewWriter(format),
		Stdout:       &out,
		TraceID:      "trace-version",
	}, &out
}

func TestBuildData_Fallbacks(t *testing.T) {
	d := buildData("", "")
	assert.Equal(t, "dev", d.Version)
	assert.Equal(t, "unknown", d.Commit)
	assert.Equal(t, runtime.Version(), d.GoVersion)
	assert.NotNil(t, d.Aliases)

	d = buildData("1.4.0", "abc123")
	assert.Equal(t, "1.4.0", d.Version)
	assert.Equal(t, "abc123", d.Commit)
}

func TestWriteText(t *testing.T) {
	d := &Data{
		Version:   "1.4.0",
		GoVersion: "go1.25.4",
		Commit:    "abc123",
		Aliases:   []AliasEntry{{Command: "analyze", Alias: "findbugs"}},
	}
	var buf bytes.Buffer
	require.NoError(t, d.writeText(&buf))

	want := "findbugs-ci version 1.4.0\n  Go:     go1.25.4\n  Commit: abc123\n" +
		"\nУстаревшие имена:\n  findbugs     → analyze\n"
	assert.Equal(t, want, buf.String())
}

func TestExecute_Text(t *testing.T) {
	app, out := newApp(output.FormatText)

	require.NoError(t, (&Handler{}).Execute(context.Background(), app))
	assert.Contains(t, out.String(), "findbugs-ci version ")
	assert.NotContains(t, out.String(), "trace-version")
}

func TestExecute_JSON(t *testing.T) {
	require.NoError(t, RegisterCmd())
	h, ok := command.Get(constants.ActVersion)
	require.True(t, ok)

	app, out := newApp(output.FormatJSON)
	require.NoError(t, h.Execute(context.Background(), app))

	var result struct {
		Status   string          `json:"status"`
		Command  string          `json:"command"`
		Data     Data            `json:"data"`
		Metadata output.Metadata `json:"metadata"`
	}
	dec := json.NewDecoder(out)
	require.NoError(t, dec.Decode(&result))
	assert.False(t, dec.More(), "stdout содержит ровно один JSON объект")

	assert.Equal(t, output.StatusSuccess, result.Status)
	assert.Equal(t, constants.ActVersion, result.Command)
	assert.Equal(t, runtime.Version(), result.Data.GoVersion)
	assert.Equal(t, "trace-version", result.Metadata.TraceID)
	assert.Equal(t, constants.APIVersion, result.Metadata.APIVersion)
}
