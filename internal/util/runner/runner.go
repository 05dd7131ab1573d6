// Package runner выполняет движок анализа с ограничением по памяти и времени.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
)

const maxConsoleOut = 2048

// DefaultWaitDelay — сколько Wait ждёт закрытия pipe после выхода процесса.
// Внук, унаследовавший stdout, не должен блокировать чтение бесконечно.
const DefaultWaitDelay = 5 * time.Second

// Engine — точка входа движка без отдельного процесса с ограничениями.
// Возвращает код выхода; ошибка означает, что движок не удалось запустить.
type Engine interface {
	Main(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error)
}

// Option настраивает Runner.
type Option func(*Runner)

// WithWaitDelay задаёт exec.Cmd.WaitDelay для дочернего процесса.
func WithWaitDelay(d time.Duration) Option {
	return func(r *Runner) { r.waitDelay = d }
}

// Runner запускает движок анализа: в дочерней JVM (forked) либо через Engine.
type Runner struct {
	engine    Engine
	logger    logging.Logger
	waitDelay time.Duration
}

// New создаёт Runner. engine используется только при forked=false.
func New(engine Engine, logger logging.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	r := &Runner{engine: engine, logger: logger, waitDelay: DefaultWaitDelay}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ForkCommand возвращает командную строку дочерней JVM с потолком heapMB.
// Та же сборка используется в плане dry-run через analysis.CommandLine.
func ForkCommand(spec *analysis.RunSpec, heapMB int) []string {
	return analysis.ForkArgs(spec, heapMB)
}

// Run выполняет движок и возвращает наблюдаемый результат. Run не возвращает
// ошибок: любые сбои выражены через RawOutcome.Failure.
//
// При forked=true процесс запускается в собственной группе; по истечении
// timeoutMillis группа убивается целиком, процесс дожидается (reap), вывод
// отбрасывается. При forked=false ограничения heapMB и timeoutMillis не действуют.
func (r *Runner) Run(ctx context.Context, spec *analysis.RunSpec, forked bool, heapMB int, timeoutMillis int) analysis.RawOutcome {
	if !forked {
		return r.runInProcess(ctx, spec)
	}
	return r.runForked(ctx, spec, heapMB, time.Duration(timeoutMillis)*time.Millisecond)
}

func (r *Runner) runForked(ctx context.Context, spec *analysis.RunSpec, heapMB int, timeout time.Duration) analysis.RawOutcome {
	argv := ForkCommand(spec, heapMB)
	r.logger.Info("Параметры запуска",
		"executable", argv[0],
		"heap_mb", heapMB,
		"timeout_ms", timeout.Milliseconds(),
		"args", strings.Join(urlutil.MaskArgs(argv[1:]), " "),
	)

	if argv[0] == "" {
		return analysis.RawOutcome{Failure: &analysis.Failure{Kind: analysis.FailureLaunch, Err: errors.New("java executable is empty")}}
	}

	// #nosec G204 - аргументы собраны analysis.Build из проверенной конфигурации
	cmd := exec.Command(argv[0], argv[1:]...)
	setProcessGroup(cmd)
	cmd.WaitDelay = r.waitDelay

	var stdout, stderr bytes.Buffer
	outLog := logging.NewLineWriter(r.logger, "stdout")
	errLog := logging.NewLineWriter(r.logger, "stderr")
	cmd.Stdout = io.MultiWriter(&stdout, outLog)
	cmd.Stderr = io.MultiWriter(&stderr, errLog)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.logger.Error("Не удалось запустить движок анализа", "error", err.Error())
		return analysis.RawOutcome{
			Failure:  &analysis.Failure{Kind: analysis.FailureLaunch, Err: err},
			Duration: time.Since(start),
		}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	watchdog := time.NewTimer(timeout)
	defer watchdog.Stop()

	select {
	case err := <-done:
		outLog.Flush()
		errLog.Flush()
		return r.exited(err, stdout.Bytes(), stderr.Bytes(), time.Since(start))

	case <-watchdog.C:
		r.abort(cmd, done)
		outLog.Flush()
		errLog.Flush()
		r.logger.Error("Превышен лимит времени движка анализа, процесс остановлен",
			"pid", cmd.Process.Pid,
			"timeout_ms", timeout.Milliseconds(),
		)
		return analysis.RawOutcome{
			Failure:  &analysis.Failure{Kind: analysis.FailureTimeout},
			ExitCode: -1,
			Duration: time.Since(start),
		}

	case <-ctx.Done():
		r.abort(cmd, done)
		outLog.Flush()
		errLog.Flush()
		r.logger.Warn("Прогон прерван, процесс остановлен", "pid", cmd.Process.Pid, "error", ctx.Err().Error())
		return analysis.RawOutcome{
			Failure:  &analysis.Failure{Kind: analysis.FailureTimeout, Err: ctx.Err()},
			ExitCode: -1,
			Duration: time.Since(start),
		}
	}
}

// abort убивает группу процессов и дожидается завершения Wait.
func (r *Runner) abort(cmd *exec.Cmd, done <-chan error) {
	if err := killProcessGroup(cmd); err != nil {
		r.logger.Warn("Не удалось завершить группу процессов", "pid", cmd.Process.Pid, "error", err.Error())
	}
	<-done
}

func (r *Runner) exited(err error, stdout, stderr []byte, d time.Duration) analysis.RawOutcome {
	out := analysis.RawOutcome{Stdout: stdout, Stderr: stderr, Duration: d}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.Is(err, exec.ErrWaitDelay):
		// процесс завершился с 0, но потомок удерживал pipe
		r.logger.Warn("Вывод движка закрыт принудительно после завершения процесса",
			"wait_delay", r.waitDelay.String(),
		)
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		out.Failure = &analysis.Failure{Kind: analysis.FailureNonZeroExit, ExitCode: out.ExitCode}
		r.logger.Error("Движок анализа завершился с ошибкой",
			"exit_code", out.ExitCode,
			"stderr", TrimOut(stderr),
		)
	default:
		out.ExitCode = -1
		out.Failure = &analysis.Failure{Kind: analysis.FailureLaunch, Err: err}
	}

	r.logger.Debug("Движок анализа завершён", "exit_code", out.ExitCode, "duration", d.String())
	return out
}

func (r *Runner) runInProcess(ctx context.Context, spec *analysis.RunSpec) (out analysis.RawOutcome) {
	if r.engine == nil {
		return analysis.RawOutcome{Failure: &analysis.Failure{Kind: analysis.FailureLaunch, Err: errors.New("engine is not configured")}}
	}

	args := spec.EngineArgs()
	r.logger.Info("Запуск движка анализа без fork", "args", strings.Join(urlutil.MaskArgs(args), " "))

	var stdout, stderr bytes.Buffer
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			out = analysis.RawOutcome{
				Failure:  &analysis.Failure{Kind: analysis.FailureLaunch, Err: fmt.Errorf("engine panicked: %v", p)},
				ExitCode: -1,
				Duration: time.Since(start),
			}
		}
	}()

	code, err := r.engine.Main(ctx, args, &stdout, &stderr)
	out = analysis.RawOutcome{ExitCode: code, Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), Duration: time.Since(start)}
	switch {
	case err != nil:
		out.Failure = &analysis.Failure{Kind: analysis.FailureLaunch, Err: err}
	case code != 0:
		out.Failure = &analysis.Failure{Kind: analysis.FailureNonZeroExit, ExitCode: code}
		r.logger.Error("Движок анализа завершился с ошибкой", "exit_code", code, "stderr", TrimOut(stderr.Bytes()))
	}
	return out
}

// TrimOut обрезает вывод команды.
func TrimOut(b []byte) string {
	if len(b) < maxConsoleOut {
		return string(b)
	}
	return string(b[:1020]) + "\n********\n" + string(b[len(b)-1020:])
}
