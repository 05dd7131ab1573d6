package findbugs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Kargones/findbugs-ci/internal/constants"
)

// copyReport копирует отчёт движка в dir/findbugsXml.xml через временный
// файл. Отсутствующий отчёт не копируется: возвращается "". Если отчёт уже
// лежит по целевому пути, копирования нет.
func copyReport(report, dir string) (string, error) {
	dest := filepath.Join(dir, constants.ReportFileName)
	if samePath(report, dest) {
		if _, err := os.Stat(report); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", nil
			}
			return "", err
		}
		return dest, nil
	}

	src, err := os.Open(report)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, constants.DirPermExec); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+constants.ReportFileName+"-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("копирование %s: %w", report, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Chmod(tmpName, constants.FilePermReadWrite); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return dest, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
