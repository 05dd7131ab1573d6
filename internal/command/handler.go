// Package command предоставляет интерфейс и реестр команд приложения.
// Обработчики регистрируются явно через handlers.RegisterAll() из main.
package command

import (
	"context"

	"github.com/Kargones/findbugs-ci/internal/di"
)

// Handler определяет интерфейс обработчика команды.
type Handler interface {
	// Name возвращает имя команды для регистрации в реестре
	// (константы Act* из internal/constants).
	Name() string

	// Description возвращает описание команды для вывода в help.
	Description() string

	// Execute выполняет команду. Результат пишется в app.Stdout через
	// app.OutputWriter; ошибка означает неуспешное выполнение.
	Execute(ctx context.Context, app *di.App) error
}
