package runner

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
)

// ExecEngine запускает главный класс движка через java без -Xmx и без
// лимита времени. Используется при analysis.fork=false.
type ExecEngine struct {
	Java      string
	Classpath []string
	MainClass string
}

// Main реализует Engine.
func (e *ExecEngine) Main(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	argv := make([]string, 0, len(args)+3)
	if len(e.Classpath) > 0 {
		argv = append(argv, "-cp", analysis.JoinClasspath(e.Classpath))
	}
	argv = append(argv, e.MainClass)
	argv = append(argv, args...)

	// #nosec G204 - аргументы собраны analysis.Build из проверенной конфигурации
	cmd := exec.CommandContext(ctx, e.Java, argv...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}
