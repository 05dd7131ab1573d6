package logging

import "fmt"

// Поддерживаемые форматы вывода логов.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Поддерживаемые уровни логирования.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Поддерживаемые типы вывода логов.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Значения по умолчанию для Config.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultOutput     = OutputStderr
	DefaultFilePath   = "/var/log/findbugs-ci.log"
	DefaultMaxSize    = 50 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 14 // days
	DefaultCompress   = true
)

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultLevel,
		Format:     DefaultFormat,
		Output:     DefaultOutput,
		FilePath:   DefaultFilePath,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}

// Config содержит настройки логирования.
type Config struct {
	// Format: "json" или "text".
	Format string

	// Level: "debug", "info", "warn", "error".
	Level string

	// Output: "stderr" или "file".
	Output string

	// FilePath задаёт путь к файлу логов при Output="file".
	FilePath string

	// Параметры ротации lumberjack.
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Validate проверяет значения перечислимых полей.
// Пустые значения допустимы и заменяются значениями по умолчанию.
func (c Config) Validate() error {
	switch c.Level {
	case "", LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("неизвестный уровень логирования %q", c.Level)
	}
	switch c.Format {
	case "", FormatJSON, FormatText:
	default:
		return fmt.Errorf("неизвестный формат логов %q", c.Format)
	}
	switch c.Output {
	case "", OutputStderr, OutputFile:
	default:
		return fmt.Errorf("неизвестный вывод логов %q", c.Output)
	}
	return nil
}
