// Package output форматирует результаты команд в JSON и текст.
// Вывод идёт в stdout; логи никогда не смешиваются с ним.
package output

// Значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIVersion — версия формата JSON-вывода.
const APIVersion = "v1"

// Result — структурированный результат выполнения команды.
type Result struct {
	Status  string     `json:"status"`
	Command string     `json:"command"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	// DryRun и Plan заполняются в режиме FB_DRY_RUN.
	DryRun bool  `json:"dry_run,omitempty"`
	Plan   *Plan `json:"plan,omitempty"`

	// Summary в JSON переносится в metadata.summary.
	Summary *SummaryInfo `json:"-"`
}

// ErrorInfo — ошибка в машиночитаемом виде.
// Message НЕ ДОЛЖЕН содержать секреты.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata содержит метаданные выполнения.
type Metadata struct {
	DurationMs int64        `json:"duration_ms"`
	TraceID    string       `json:"trace_id,omitempty"`
	APIVersion string       `json:"api_version"`
	Summary    *SummaryInfo `json:"summary,omitempty"`
}

// SummaryInfo — сводка с ключевыми метриками и предупреждениями.
type SummaryInfo struct {
	KeyMetrics    []KeyMetric `json:"key_metrics,omitempty"`
	WarningsCount int         `json:"warnings_count"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// KeyMetric — одна ключевая метрика сводки.
type KeyMetric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// NewSummaryInfo создаёт пустую сводку.
func NewSummaryInfo() *SummaryInfo {
	return &SummaryInfo{}
}

// AddMetric добавляет метрику.
func (s *SummaryInfo) AddMetric(name, value, unit string) {
	s.KeyMetrics = append(s.KeyMetrics, KeyMetric{Name: name, Value: value, Unit: unit})
}

// AddWarning добавляет предупреждение.
func (s *SummaryInfo) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
	s.WarningsCount++
}
