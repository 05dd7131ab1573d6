// Package version реализует команду version.
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/Kargones/findbugs-ci/internal/command"
	"github.com/Kargones/findbugs-ci/internal/command/handlers/shared"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
)

// RegisterCmd регистрирует команду version.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data содержит информацию о версии приложения.
type Data struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Commit    string `json:"commit"`
	// Aliases — устаревшие имена команд для миграции pipeline.
	Aliases []AliasEntry `json:"aliases"`
}

// AliasEntry связывает команду с её устаревшим именем.
type AliasEntry struct {
	Command string `json:"command"`
	Alias   string `json:"alias"`
}

// buildData: пустой version → "dev", пустой commit → "unknown".
func buildData(version, commit string) *Data {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	d := &Data{
		Version:   version,
		GoVersion: runtime.Version(),
		Commit:    commit,
		Aliases:   []AliasEntry{},
	}
	for _, info := range command.ListAllWithAliases() {
		if info.DeprecatedAlias == "" {
			continue
		}
		d.Aliases = append(d.Aliases, AliasEntry{Command: info.Name, Alias: info.DeprecatedAlias})
	}
	return d
}

func (d *Data) writeText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "findbugs-ci version %s\n  Go:     %s\n  Commit: %s\n",
		d.Version, d.GoVersion, d.Commit); err != nil {
		return err
	}
	if len(d.Aliases) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nУстаревшие имена:"); err != nil {
		return err
	}
	for _, a := range d.Aliases {
		if _, err := fmt.Fprintf(w, "  %-12s → %s\n", a.Alias, a.Command); err != nil {
			return err
		}
	}
	return nil
}

// Handler обрабатывает команду version.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActVersion
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод информации о версии приложения"
}

// Execute выводит версию. Текстовый вывод компактный, без metadata.
func (h *Handler) Execute(_ context.Context, app *di.App) error {
	start := time.Now()
	data := buildData(constants.Version, constants.PreCommitHash)

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
		Command:  constants.ActVersion,
		Data:     data,
		Metadata: shared.Metadata(app, start),
	})
}
