package history

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"

	// blank import для драйвера SQL Server
	_ "github.com/denisenkom/go-mssqldb"
)

// tableName — таблица журнала. Используется в fmt.Sprintf только как
// compile-time константа; значения передаются параметрами.
const tableName = "[dbo].[FindbugsRunJournal]"

// maxDiagnostic — предел длины колонки Diagnostic (NVARCHAR(4000)).
const maxDiagnostic = 4000

// Значения по умолчанию для Options.
const (
	DefaultPort    = 1433
	DefaultTimeout = 30 * time.Second
)

// Compile-time проверка реализации интерфейса.
var _ Journal = (*MSSQLJournal)(nil)

// Options содержит параметры подключения к журналу.
type Options struct {
	// Server — адрес сервера MSSQL
	Server string
	// Port — порт сервера (по умолчанию 1433)
	Port int
	// User — имя пользователя
	User string
	// Password — пароль пользователя
	Password string
	// Database — база данных журнала
	Database string
	// Timeout — таймаут подключения
	Timeout time.Duration
	// DisableEncryption отключает TLS.
	DisableEncryption bool
}

// MSSQLJournal пишет записи о прогонах в SQL Server.
type MSSQLJournal struct {
	db   *sql.DB
	opts Options
}

// NewMSSQLJournal подключается к серверу, проверяет соединение и создаёт
// таблицу журнала, если её нет.
func NewMSSQLJournal(ctx context.Context, opts Options) (*MSSQLJournal, error) {
	if opts.Server == "" {
		return nil, apperrors.NewAppError(apperrors.ErrHistoryConnect, "не задан сервер журнала", nil)
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, apperrors.NewAppError(apperrors.ErrHistoryConnect,
			fmt.Sprintf("недопустимый порт %d", opts.Port), nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	db, err := sql.Open("sqlserver", connString(opts))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrHistoryConnect, "не удалось открыть соединение", err)
	}

	j := &MSSQLJournal{db: db, opts: opts}
	if err := j.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// connString собирает DSN. Значения экранируются, чтобы ';' и '=' в пароле
// не ломали строку подключения.
func connString(opts Options) string {
	encryptMode := "true"
	if opts.DisableEncryption {
		encryptMode = "disable"
	}
	return fmt.Sprintf(
		"server=%s;user id=%s;password=%s;port=%d;database=%s;encrypt=%s;connection timeout=%d",
		escapeConnStringParam(opts.Server),
		escapeConnStringParam(opts.User),
		escapeConnStringParam(opts.Password),
		opts.Port,
		escapeConnStringParam(opts.Database),
		encryptMode,
		int(opts.Timeout.Seconds()),
	)
}

func escapeConnStringParam(s string) string {
	return url.QueryEscape(s)
}

func (j *MSSQLJournal) init(ctx context.Context) error {
	if err := j.db.PingContext(ctx); err != nil {
		if ctx.Err() != nil {
			return apperrors.NewAppError(apperrors.ErrHistoryConnect, "подключение прервано", ctx.Err())
		}
		return apperrors.NewAppError(apperrors.ErrHistoryConnect, "сервер журнала недоступен", err)
	}
	if _, err := j.db.ExecContext(ctx, createTableSQL); err != nil {
		return apperrors.NewAppError(apperrors.ErrHistoryConnect, "не удалось создать таблицу журнала", err)
	}
	return nil
}

var createTableSQL = fmt.Sprintf(`IF OBJECT_ID(N'%[1]s', N'U') IS NULL
CREATE TABLE %[1]s (
	Id BIGINT IDENTITY(1,1) PRIMARY KEY,
	Project NVARCHAR(256) NOT NULL,
	Outcome NVARCHAR(32) NOT NULL,
	Findings INT NOT NULL,
	ExitCode INT NOT NULL,
	DurationMs BIGINT NOT NULL,
	TraceId NVARCHAR(64) NOT NULL,
	StartedAt DATETIME2 NOT NULL,
	Diagnostic NVARCHAR(4000) NULL
)`, tableName)

var insertSQL = fmt.Sprintf(`INSERT INTO %s
	(Project, Outcome, Findings, ExitCode, DurationMs, TraceId, StartedAt, Diagnostic)
	VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`, tableName)

// Record реализует Journal.
func (j *MSSQLJournal) Record(ctx context.Context, e Entry) error {
	if j.db == nil {
		return apperrors.NewAppError(apperrors.ErrHistoryWrite, "журнал закрыт", nil)
	}

	var diag sql.NullString
	if e.Diagnostic != "" {
		diag = sql.NullString{String: truncate(e.Diagnostic, maxDiagnostic), Valid: true}
	}
	_, err := j.db.ExecContext(ctx, insertSQL,
		e.Project,
		e.Outcome,
		e.Findings,
		e.ExitCode,
		e.Duration.Milliseconds(),
		e.TraceID,
		e.StartedAt.UTC(),
		diag,
	)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrHistoryWrite, "не удалось записать прогон в журнал", err)
	}
	return nil
}

// Close реализует Journal.
func (j *MSSQLJournal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	if err != nil {
		return fmt.Errorf("закрытие журнала: %w", err)
	}
	return nil
}

// truncate обрезает s до n рун.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
