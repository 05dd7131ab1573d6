package command

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
)

type countingHandler struct {
	name       string
	executeErr error
	executeCnt int
	gotApp     *di.App
}

func (h *countingHandler) Name() string        { return h.name }
func (h *countingHandler) Description() string { return "test: " + h.name }
func (h *countingHandler) Execute(_ context.Context, app *di.App) error {
	h.executeCnt++
	h.gotApp = app
	return h.executeErr
}

// captureWarnings подменяет warnOutput на буфер до конца теста.
func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := warnOutput
	warnOutput = &buf
	t.Cleanup(func() { warnOutput = old })
	return &buf
}

func newBridge(actual Handler) *DeprecatedBridge {
	return &DeprecatedBridge{actual: actual, deprecated: "findbugs", newName: "analyze"}
}

func TestDeprecatedBridge_Accessors(t *testing.T) {
	b := newBridge(&countingHandler{name: "analyze"})

	assert.Equal(t, "findbugs", b.Name())
	assert.Equal(t, "test: analyze", b.Description())
	assert.True(t, b.IsDeprecated())
	assert.Equal(t, "analyze", b.NewName())
}

func TestDeprecatedBridge_Execute(t *testing.T) {
	warn := captureWarnings(t)
	actual := &countingHandler{name: "analyze"}
	app := &di.App{Logger: logging.NopLogger{}}

	require.NoError(t, newBridge(actual).Execute(context.Background(), app))

	assert.Equal(t, 1, actual.executeCnt)
	assert.Same(t, app, actual.gotApp)
	assert.Equal(t, "WARNING: command 'findbugs' is deprecated, use 'analyze' instead\n", warn.String())
}

func TestDeprecatedBridge_WarnsEveryCall(t *testing.T) {
	warn := captureWarnings(t)
	b := newBridge(&countingHandler{name: "analyze"})

	require.NoError(t, b.Execute(context.Background(), nil))
	require.NoError(t, b.Execute(context.Background(), nil))

	assert.Equal(t, 2, bytes.Count(warn.Bytes(), []byte("deprecated")))
}

func TestDeprecatedBridge_PropagatesError(t *testing.T) {
	captureWarnings(t)
	want := errors.New("boom")
	b := newBridge(&countingHandler{name: "analyze", executeErr: want})

	assert.ErrorIs(t, b.Execute(context.Background(), nil), want)
}

func TestDeprecatedBridge_CancelledContext(t *testing.T) {
	warn := captureWarnings(t)
	actual := &countingHandler{name: "analyze"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newBridge(actual).Execute(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, actual.executeCnt)
	assert.Empty(t, warn.String())
}
