package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию по правилам окружения CI:
//   - .env файл (FB_ENV_FILE или ./.env) загружается, если существует;
//     уже заданные переменные окружения им не перезаписываются;
//   - YAML берётся из FB_CONFIG; без FB_CONFIG читается ./findbugs.yaml,
//     отсутствие которого не ошибка.
//
// Возвращает *apperrors.AppError с кодом CONFIG.*.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad, "не удалось загрузить .env файл", err)
	}

	path, explicit := os.LookupEnv(constants.EnvConfigFile)
	if !explicit || path == "" {
		path = constants.DefaultConfigFile
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	return LoadFile(path)
}

// LoadFile загружает конфигурацию: DefaultConfig → YAML (если path не пуст)
// → переменные окружения FB_* → Validate.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("не удалось прочитать файл конфигурации %s", path), err)
		}
		if err := decodeYAML(data, cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
				fmt.Sprintf("некорректный YAML в %s", path), err)
		}
		cfg.Source = path
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
			"не удалось прочитать переменные окружения FB_*", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate,
			"конфигурация не прошла валидацию", err)
	}
	return cfg, nil
}

// decodeYAML накладывает YAML поверх значений по умолчанию.
// Неизвестные ключи считаются ошибкой: опечатка в имени параметра
// не должна молча отключать настройку.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func loadDotEnv() error {
	path := os.Getenv(constants.EnvDotEnvFile)
	explicit := path != ""
	if !explicit {
		path = constants.DefaultDotEnvFile
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	return godotenv.Load(path)
}
