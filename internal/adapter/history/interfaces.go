// Package history ведёт журнал прогонов анализа.
//
// Journal — абстракция для сервиса анализа; MSSQLJournal пишет одну строку
// на прогон в таблицу SQL Server, Nop используется, когда журнал выключен.
// Ошибки записи не должны прерывать прогон: вызывающий только логирует их.
package history

import (
	"context"
	"time"
)

// Entry — запись о завершённом прогоне.
type Entry struct {
	// Project — имя проекта из конфигурации.
	Project string
	// Outcome — итог прогона: Clean, IssuesFound или Failed.
	Outcome string
	// Findings — число находок в отчёте.
	Findings int
	// ExitCode — код выхода движка; -1 если процесс был остановлен.
	ExitCode int
	// Duration — длительность работы движка.
	Duration time.Duration
	// TraceID — trace id прогона для корреляции с логами.
	TraceID string
	// StartedAt — время начала прогона.
	StartedAt time.Time
	// Diagnostic — текст диагностики неуспешного прогона.
	Diagnostic string
}

// Journal сохраняет записи о прогонах.
type Journal interface {
	// Record сохраняет запись.
	Record(ctx context.Context, e Entry) error
	// Close освобождает соединение.
	Close() error
}

// Nop — журнал, который ничего не сохраняет.
type Nop struct{}

// Record реализует Journal.
func (Nop) Record(context.Context, Entry) error { return nil }

// Close реализует Journal.
func (Nop) Close() error { return nil }
