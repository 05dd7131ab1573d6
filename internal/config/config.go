// Package config загружает конфигурацию findbugs-ci.
//
// Порядок источников: значения по умолчанию (DefaultConfig) → YAML файл
// (FB_CONFIG, по умолчанию findbugs.yaml) → переменные окружения FB_*.
// Опциональный .env файл загружается до чтения окружения.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/metrics"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
)

// Значения emptyResource.
const (
	EmptyResourceKeep = "keep"
	EmptyResourceSkip = "skip"
	EmptyResourceFail = "fail"
)

// DefaultMainClass — точка входа движка FindBugs 3.x.
const DefaultMainClass = "edu.umd.cs.findbugs.FindBugs2"

// Config — единственное неизменяемое после загрузки значение конфигурации,
// передаваемое в конструкторы компонентов.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Project    ProjectConfig    `yaml:"project"`
	Engine     EngineConfig     `yaml:"engine"`
	Resources  ResourcesConfig  `yaml:"resources"`
	Repository RepositoryConfig `yaml:"repository"`
	Report     ReportConfig     `yaml:"report"`
	History    HistoryConfig    `yaml:"history"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`

	// Source — путь к прочитанному YAML файлу; пусто, если файл не использовался.
	Source string `yaml:"-"`
}

// AnalysisConfig содержит параметры прогона движка.
type AnalysisConfig struct {
	// Skip — пропустить анализ целиком (vacuous Clean).
	Skip bool `yaml:"skip" env:"FB_SKIP"`

	// Fork — запускать движок в отдельной JVM.
	Fork bool `yaml:"fork" env:"FB_FORK"`

	// MaxHeap — размер кучи дочерней JVM в MB.
	MaxHeap int `yaml:"maxHeap" env:"FB_MAX_HEAP"`

	// Timeout — лимит времени дочерней JVM в миллисекундах.
	Timeout int `yaml:"timeout" env:"FB_TIMEOUT"`

	// FailOnError — ошибки выполнения движка прерывают сборку.
	FailOnError bool `yaml:"failOnError" env:"FB_FAIL_ON_ERROR"`

	Effort    string `yaml:"effort" env:"FB_EFFORT"`
	Threshold string `yaml:"threshold" env:"FB_THRESHOLD"`

	// MaxRank — 0 означает «не задан».
	MaxRank int `yaml:"maxRank" env:"FB_MAX_RANK"`

	JVMArgs   string   `yaml:"jvmArgs" env:"FB_JVM_ARGS"`
	ExtraArgs []string `yaml:"extraArgs" env:"FB_EXTRA_ARGS"`

	Debug   bool `yaml:"debug" env:"FB_DEBUG"`
	Relaxed bool `yaml:"relaxed" env:"FB_RELAXED"`
	Nested  bool `yaml:"nested" env:"FB_NESTED"`
	Trace   bool `yaml:"trace" env:"FB_TRACE"`

	Visitors     string `yaml:"visitors" env:"FB_VISITORS"`
	OmitVisitors string `yaml:"omitVisitors" env:"FB_OMIT_VISITORS"`
	OnlyAnalyze  string `yaml:"onlyAnalyze" env:"FB_ONLY_ANALYZE"`

	// Ссылки на ресурсы: classpath-имя, URL или путь.
	IncludeFilterFile string `yaml:"includeFilterFile" env:"FB_INCLUDE_FILTER"`
	ExcludeFilterFile string `yaml:"excludeFilterFile" env:"FB_EXCLUDE_FILTER"`

	// ExcludeBugsFile и PluginList — списки ссылок через запятую.
	ExcludeBugsFile string `yaml:"excludeBugsFile" env:"FB_EXCLUDE_BUGS"`
	PluginList      string `yaml:"pluginList" env:"FB_PLUGIN_LIST"`

	// Plugins — координаты артефактов group:artifact:version[:type].
	Plugins []string `yaml:"plugins" env:"FB_PLUGINS"`

	// EmptyResource — keep, skip или fail.
	EmptyResource string `yaml:"emptyResource" env:"FB_EMPTY_RESOURCE"`
}

// ProjectConfig описывает анализируемый проект. Относительные пути
// разрешаются от BaseDir.
type ProjectConfig struct {
	Name     string `yaml:"name" env:"FB_PROJECT_NAME"`
	BaseDir  string `yaml:"baseDir" env:"FB_PROJECT_BASE_DIR"`
	BuildDir string `yaml:"buildDir" env:"FB_PROJECT_BUILD_DIR"`

	ClassFilesDirectory     string `yaml:"classFilesDirectory" env:"FB_CLASS_DIR"`
	TestClassFilesDirectory string `yaml:"testClassFilesDirectory" env:"FB_TEST_CLASS_DIR"`
	IncludeTests            bool   `yaml:"includeTests" env:"FB_INCLUDE_TESTS"`

	// ClassGlobs — doublestar-шаблоны дополнительных директорий классов.
	ClassGlobs []string `yaml:"classGlobs" env:"FB_CLASS_GLOBS"`

	AuxClasspath []string `yaml:"auxClasspath" env:"FB_AUX_CLASSPATH"`
	SourceRoots  []string `yaml:"sourceRoots" env:"FB_SOURCE_ROOTS"`
}

// EngineConfig задаёт способ запуска движка.
type EngineConfig struct {
	JavaExecutable string   `yaml:"javaExecutable" env:"FB_JAVA"`
	Classpath      []string `yaml:"classpath" env:"FB_ENGINE_CLASSPATH"`
	MainClass      string   `yaml:"mainClass" env:"FB_ENGINE_MAIN"`
}

// ResourcesConfig управляет поиском и материализацией ресурсов.
type ResourcesConfig struct {
	// SearchRoots — директории и jar-файлы для classpath-ресурсов.
	SearchRoots []string `yaml:"searchRoots" env:"FB_RESOURCE_ROOTS"`

	HTTPTimeout time.Duration `yaml:"httpTimeout" env:"FB_RESOURCE_HTTP_TIMEOUT"`

	// CleanWorkDir — очищать <buildDir>/findbugs перед прогоном.
	CleanWorkDir bool `yaml:"cleanWorkDir" env:"FB_CLEAN_WORK_DIR"`
}

// RepositoryConfig — настройки Maven-репозиториев для plugins.
type RepositoryConfig struct {
	Local   string   `yaml:"local" env:"FB_REPO_LOCAL"`
	Remotes []string `yaml:"remotes" env:"FB_REPO_REMOTES"`

	// Keyring — путь к armored keyring для проверки .asc подписей.
	Keyring          string `yaml:"keyring" env:"FB_REPO_KEYRING"`
	VerifySignatures bool   `yaml:"verifySignatures" env:"FB_REPO_VERIFY"`
}

// ReportConfig — копирование XML отчёта и кодировка текстового вывода.
type ReportConfig struct {
	XMLOutput bool `yaml:"xmlOutput" env:"FB_XML_OUTPUT"`
	// XMLOutputDirectory — куда копируется отчёт; пусто → buildDir.
	XMLOutputDirectory string `yaml:"xmlOutputDirectory" env:"FB_XML_OUTPUT_DIR"`
	OutputEncoding     string `yaml:"outputEncoding" env:"FB_OUTPUT_ENCODING"`
}

// HistoryConfig — журнал прогонов в MSSQL.
type HistoryConfig struct {
	Enabled  bool          `yaml:"enabled" env:"FB_HISTORY_ENABLED"`
	Server   string        `yaml:"server" env:"FB_HISTORY_SERVER"`
	Port     int           `yaml:"port" env:"FB_HISTORY_PORT"`
	Database string        `yaml:"database" env:"FB_HISTORY_DATABASE"`
	User     string        `yaml:"user" env:"FB_HISTORY_USER"`
	Password string        `yaml:"password" env:"FB_HISTORY_PASSWORD"`
	Timeout  time.Duration `yaml:"timeout" env:"FB_HISTORY_TIMEOUT"`

	// DisableEncryption отключает TLS к серверу журнала.
	DisableEncryption bool `yaml:"disableEncryption" env:"FB_HISTORY_DISABLE_ENCRYPTION"`
}

// LoggingConfig содержит настройки для логирования.
type LoggingConfig struct {
	// Level - уровень логирования (debug, info, warn, error)
	Level string `yaml:"level" env:"FB_LOG_LEVEL"`

	// Format - формат логов (json, text)
	Format string `yaml:"format" env:"FB_LOG_FORMAT"`

	// Output - вывод логов (stderr, file)
	Output string `yaml:"output" env:"FB_LOG_OUTPUT"`

	// FilePath - путь к файлу логов (если output=file)
	FilePath string `yaml:"filePath" env:"FB_LOG_FILE_PATH"`

	MaxSize    int  `yaml:"maxSize" env:"FB_LOG_MAX_SIZE"`
	MaxBackups int  `yaml:"maxBackups" env:"FB_LOG_MAX_BACKUPS"`
	MaxAge     int  `yaml:"maxAge" env:"FB_LOG_MAX_AGE"`
	Compress   bool `yaml:"compress" env:"FB_LOG_COMPRESS"`
}

// MetricsConfig содержит настройки Prometheus Pushgateway.
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" env:"FB_METRICS_ENABLED"`
	PushgatewayURL string        `yaml:"pushgatewayUrl" env:"FB_METRICS_PUSHGATEWAY_URL"`
	JobName        string        `yaml:"jobName" env:"FB_METRICS_JOB_NAME"`
	Timeout        time.Duration `yaml:"timeout" env:"FB_METRICS_TIMEOUT"`
	InstanceLabel  string        `yaml:"instanceLabel" env:"FB_METRICS_INSTANCE"`
}

// TracingConfig содержит настройки OTLP экспорта.
type TracingConfig struct {
	Enabled      bool          `yaml:"enabled" env:"FB_TRACING_ENABLED"`
	Endpoint     string        `yaml:"endpoint" env:"FB_TRACING_ENDPOINT"`
	ServiceName  string        `yaml:"serviceName" env:"FB_TRACING_SERVICE_NAME"`
	Environment  string        `yaml:"environment" env:"FB_TRACING_ENVIRONMENT"`
	Insecure     bool          `yaml:"insecure" env:"FB_TRACING_INSECURE"`
	Timeout      time.Duration `yaml:"timeout" env:"FB_TRACING_TIMEOUT"`
	SamplingRate float64       `yaml:"samplingRate" env:"FB_TRACING_SAMPLING_RATE"`
}

// DefaultConfig возвращает конфигурацию по умолчанию.
// env-default теги не используются: bool-поля с default=true иначе
// перезаписывали бы значения из YAML при cleanenv.ReadEnv.
func DefaultConfig() *Config {
	lc := logging.DefaultConfig()
	mc := metrics.DefaultConfig()
	tc := tracing.DefaultConfig()

	return &Config{
		Analysis: AnalysisConfig{
			Fork:          true,
			MaxHeap:       512,
			Timeout:       600000,
			FailOnError:   true,
			Effort:        "Default",
			Threshold:     "Default",
			Nested:        false,
			EmptyResource: EmptyResourceKeep,
		},
		Project: ProjectConfig{
			BaseDir:                 ".",
			BuildDir:                "target",
			ClassFilesDirectory:     "target/classes",
			TestClassFilesDirectory: "target/test-classes",
		},
		Engine: EngineConfig{
			JavaExecutable: defaultJava(),
			MainClass:      DefaultMainClass,
		},
		Resources: ResourcesConfig{
			HTTPTimeout:  30 * time.Second,
			CleanWorkDir: true,
		},
		Repository: RepositoryConfig{
			Local: defaultLocalRepository(),
		},
		Report: ReportConfig{
			OutputEncoding: "UTF-8",
		},
		History: HistoryConfig{
			Port:    1433,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      lc.Level,
			Format:     lc.Format,
			Output:     lc.Output,
			FilePath:   lc.FilePath,
			MaxSize:    lc.MaxSize,
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAge,
			Compress:   lc.Compress,
		},
		Metrics: MetricsConfig{
			JobName: mc.JobName,
			Timeout: mc.Timeout,
		},
		Tracing: TracingConfig{
			ServiceName:  tc.ServiceName,
			Environment:  tc.Environment,
			Timeout:      tc.Timeout,
			SamplingRate: tc.SamplingRate,
		},
	}
}

func defaultJava() string {
	if home := os.Getenv("JAVA_HOME"); home != "" {
		return filepath.Join(home, "bin", "java")
	}
	return "java"
}

func defaultLocalRepository() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}

// Path разрешает p относительно BaseDir проекта.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Project.BaseDir, p)
}

// BuildDir возвращает директорию сборки проекта.
func (c *Config) BuildDir() string {
	return c.Path(c.Project.BuildDir)
}

// WorkDir возвращает директорию материализованных ресурсов <buildDir>/findbugs.
func (c *Config) WorkDir() string {
	return filepath.Join(c.BuildDir(), constants.WorkDirName)
}

// XMLOutputDir возвращает директорию копии XML отчёта; по умолчанию buildDir.
func (c *Config) XMLOutputDir() string {
	if c.Report.XMLOutputDirectory == "" {
		return c.BuildDir()
	}
	return c.Path(c.Report.XMLOutputDirectory)
}

// ReportPath возвращает путь XML отчёта движка <buildDir>/findbugsXml.xml.
func (c *Config) ReportPath() string {
	return filepath.Join(c.BuildDir(), constants.ReportFileName)
}
