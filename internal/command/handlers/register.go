// Package handlers регистрирует все обработчики команд в реестре.
// Регистрация явная: main вызывает RegisterAll один раз до выбора команды.
package handlers

import (
	"github.com/Kargones/findbugs-ci/internal/command/handlers/analyze"
	"github.com/Kargones/findbugs-ci/internal/command/handlers/help"
	"github.com/Kargones/findbugs-ci/internal/command/handlers/version"
)

// RegisterAll регистрирует все обработчики. Возвращает первую ошибку регистрации.
func RegisterAll() error {
	for _, register := range []func() error{
		analyze.RegisterCmd,
		version.RegisterCmd,
		help.RegisterCmd,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
