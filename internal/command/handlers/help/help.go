// Package help реализует команду help: список команд и переменных окружения.
package help

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Kargones/findbugs-ci/internal/command"
	"github.com/Kargones/findbugs-ci/internal/command/handlers/shared"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
)

// RegisterCmd регистрирует команду help.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data содержит список доступных команд.
type Data struct {
	Commands []CommandInfo `json:"commands"`
}

// CommandInfo описывает одну команду.
type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	NewName     string `json:"new_name,omitempty"`
}

// options — переменные окружения, управляющие запуском.
var options = [][2]string{
	{constants.EnvCommand + "=<команда>", "Команда, если не задана аргументом"},
	{constants.EnvConfigFile + "=<путь>", "Файл конфигурации (по умолчанию " + constants.DefaultConfigFile + ")"},
	{constants.EnvOutputFormat + "=json", "Машиночитаемый вывод"},
	{constants.EnvDryRun + "=true", "План прогона без запуска движка"},
	{constants.EnvProgress + "=off|plain|tty|json", "Индикатор прогресса в stderr"},
}

// Handler обрабатывает команду help.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActHelp
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод списка доступных команд"
}

// Execute выводит список команд.
func (h *Handler) Execute(_ context.Context, app *di.App) error {
	start := time.Now()
	data := buildData()

	if !app.IsJSON() {
		w, err := shared.TextOutput(app)
		if err != nil {
			return err
		}
		if err := data.writeText(w); err != nil {
			return err
		}
		return w.Close()
	}

	return shared.Write(app, &output.Result{
		Status:   output.StatusSuccess,
		Command:  constants.ActHelp,
		Data:     data,
		Metadata: shared.Metadata(app, start),
	})
}

// buildData собирает команды из реестра; deprecated алиас идёт
// отдельной записью сразу после основной команды.
func buildData() *Data {
	data := &Data{}
	for _, info := range command.ListAllWithAliases() {
		data.Commands = append(data.Commands, CommandInfo{
			Name:        info.Name,
			Description: info.Description,
		})
		if info.DeprecatedAlias == "" {
			continue
		}
		alias := CommandInfo{Name: info.DeprecatedAlias, Description: info.Description}
		if h, ok := command.Get(info.DeprecatedAlias); ok {
			if dep, ok := h.(command.Deprecatable); ok && dep.IsDeprecated() {
				alias.Deprecated = true
				alias.NewName = dep.NewName()
			}
		}
		data.Commands = append(data.Commands, alias)
	}
	return data
}

func (d *Data) writeText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("findbugs-ci — статический анализ байткода в CI\n")
	sb.WriteString("\nКоманды:\n")

	maxLen := 0
	for _, cmd := range d.Commands {
		maxLen = max(maxLen, len(cmd.Name))
	}
	for _, cmd := range d.Commands {
		desc := cmd.Description
		if cmd.Deprecated {
			desc = fmt.Sprintf("[deprecated → %s] %s", cmd.NewName, desc)
		}
		fmt.Fprintf(&sb, "  %-*s  %s\n", maxLen, cmd.Name, desc)
	}

	sb.WriteString("\nОпции:\n")
	optLen := 0
	for _, o := range options {
		optLen = max(optLen, len(o[0]))
	}
	for _, o := range options {
		fmt.Fprintf(&sb, "  %-*s  %s\n", optLen, o[0], o[1])
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
