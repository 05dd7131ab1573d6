// Package constants содержит константы, общие для команд findbugs-ci.
package constants

// Имена команд.
const (
	// ActAnalyze — запуск анализа.
	ActAnalyze = "analyze"
	// ActFindbugsLegacy — устаревшее имя analyze, сохранено для старых pipeline.
	ActFindbugsLegacy = "findbugs"
	// ActVersion — вывод версии.
	ActVersion = "version"
	// ActHelp — список команд.
	ActHelp = "help"
)

// Переменные окружения, читаемые вне config (до загрузки конфигурации).
const (
	// EnvCommand — имя команды для выполнения.
	EnvCommand = "FB_COMMAND"
	// EnvConfigFile — путь к YAML-конфигурации.
	EnvConfigFile = "FB_CONFIG"
	// EnvDotEnvFile — путь к .env файлу.
	EnvDotEnvFile = "FB_ENV_FILE"
	// EnvOutputFormat — формат вывода результата: json или text.
	EnvOutputFormat = "FB_OUTPUT_FORMAT"
	// EnvDryRun — вывести план без выполнения.
	EnvDryRun = "FB_DRY_RUN"
	// EnvProgress — режим индикатора прогресса: auto, tty, plain, json, off.
	EnvProgress = "FB_PROGRESS"
)

// Значения по умолчанию, не зависящие от конфигурации.
const (
	// DefaultConfigFile — имя конфигурации по умолчанию (относительно рабочей директории).
	DefaultConfigFile = "findbugs.yaml"
	// DefaultDotEnvFile — .env файл по умолчанию; отсутствие файла не ошибка.
	DefaultDotEnvFile = ".env"
	// WorkDirName — поддиректория buildDir для материализованных ресурсов.
	WorkDirName = "findbugs"
	// ReportFileName — имя XML-отчёта движка в buildDir и в xmlOutputDirectory.
	ReportFileName = "findbugsXml.xml"
	// APIVersion — версия формата JSON-вывода.
	APIVersion = "v1"
)

// Коды выхода процесса.
const (
	ExitOK             = 0
	ExitConfigFailure  = 5
	ExitCommandFailure = 8
)
