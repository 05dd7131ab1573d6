package help

import (
	"bytes"
	"context"
	"encoding/json"
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

type stubHandler struct{ name, desc string }

func (s *stubHandler) Name() string                           { return s.name }
func (s *stubHandler) Description() string                    { return s.desc }
func (s *stubHandler) Execute(context.Context, *di.App) error { return nil }

// registry общий для пакета: регистрируем один раз.
func init() {
	_ = command.RegisterWithAlias(&stubHandler{name: "analyze", desc: "Анализ"}, "findbugs")
	_ = RegisterCmd()
}

func newApp(format string) (*di.App, *bytes.Buffer) {
	var out bytes.Buffer
	return &di.App{
		Config:       config.DefaultConfig(),
		Logger:       logging.NopLogger{},
		OutputWriter: output.NewWriter(format),
		Stdout:       &out,
		TraceID:      "trace-help",
	}, &out
}

func TestBuildData(t *testing.T) {
	d := buildData()
	require.Len(t, d.Commands, 3)

	assert.Equal(t, CommandInfo{Name: "analyze", Description: "Анализ"}, d.Commands[0])
	assert.Equal(t, CommandInfo{Name: "findbugs", Description: "Анализ", Deprecated: true, NewName: "analyze"}, d.Commands[1])
	assert.Equal(t, constants.ActHelp, d.Commands[2].Name)
}

func TestExecute_Text(t *testing.T) {
	app, out := newApp(output.FormatText)
	require.NoError(t, (&Handler{}).Execute(context.Background(), app))

	text := out.String()
	assert.Contains(t, text, "  analyze   Анализ\n")
	assert.Contains(t, text, "[deprecated → analyze] Анализ")
	assert.Contains(t, text, constants.EnvOutputFormat+"=json")
	assert.Contains(t, text, constants.EnvDryRun+"=true")
}

func TestExecute_JSON(t *testing.T) {
	app, out := newApp(output.FormatJSON)
	require.NoError(t, (&Handler{}).Execute(context.Background(), app))

	var result struct {
		Status   string          `json:"status"`
		Data     Data            `json:"data"`
		Metadata output.Metadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, output.StatusSuccess, result.Status)
	assert.Len(t, result.Data.Commands, 3)
	assert.Equal(t, "trace-help", result.Metadata.TraceID)
}
