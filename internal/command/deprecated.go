package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Kargones/findbugs-ci/internal/di"
)

// Deprecatable опционально реализуется deprecated handlers.
// Используется help для пометки устаревших имён.
type Deprecatable interface {
	IsDeprecated() bool
	NewName() string
}

var (
	_ Handler      = (*DeprecatedBridge)(nil)
	_ Deprecatable = (*DeprecatedBridge)(nil)
)

// warnOutput — куда пишется предупреждение о deprecated имени.
// stderr, чтобы не ломать JSON в stdout.
var warnOutput io.Writer = os.Stderr

// DeprecatedBridge выполняет команду под старым именем, предупреждая
// о новом имени при каждом вызове.
type DeprecatedBridge struct {
	actual     Handler
	deprecated string
	newName    string
}

// Name возвращает deprecated имя команды.
func (b *DeprecatedBridge) Name() string { return b.deprecated }

// Description делегирует actual handler.
func (b *DeprecatedBridge) Description() string { return b.actual.Description() }

// IsDeprecated всегда true.
func (b *DeprecatedBridge) IsDeprecated() bool { return true }

// NewName возвращает рекомендуемое имя команды.
func (b *DeprecatedBridge) NewName() string { return b.newName }

// Execute пишет warning в stderr и делегирует actual handler.
// При отменённом context возвращает ctx.Err() без вызова handler.
func (b *DeprecatedBridge) Execute(ctx context.Context, app *di.App) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(warnOutput, "WARNING: command '%s' is deprecated, use '%s' instead\n",
		b.deprecated, b.newName)
	if app != nil && app.Logger != nil {
		app.Logger.Warn("вызвана deprecated команда", "command", b.deprecated, "new_name", b.newName)
	}
	return b.actual.Execute(ctx, app)
}
