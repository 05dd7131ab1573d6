//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/findbugs-ci/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideOutputWriter,
	ProvideStdout,
	ProvideTraceID,
	ProvideMetricsCollector,
	ProvideTracerProvider,
	ProvideHistory,
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт App из загруженного Config.
// Реализация генерируется Wire в wire_gen.go.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
