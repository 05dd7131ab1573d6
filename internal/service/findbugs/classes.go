package findbugs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
)

// collectClassDirs возвращает существующие директории классов: основную,
// тестовую (при includeTests) и найденные по project.classGlobs.
// Несуществующие директории отбрасываются.
func (s *Service) collectClassDirs() ([]string, error) {
	p := s.cfg.Project

	var candidates []string
	if p.ClassFilesDirectory != "" {
		candidates = append(candidates, s.cfg.Path(p.ClassFilesDirectory))
	}
	if p.IncludeTests && p.TestClassFilesDirectory != "" {
		candidates = append(candidates, s.cfg.Path(p.TestClassFilesDirectory))
	}

	for _, pattern := range p.ClassGlobs {
		matches, err := globDirs(p.BaseDir, pattern)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, matches...)
	}

	var out []string
	for _, dir := range candidates {
		dir = filepath.Clean(dir)
		if slices.Contains(out, dir) {
			continue
		}
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			s.logger.Debug("Директория классов отсутствует", "path", dir)
			continue
		}
		out = append(out, dir)
	}
	return out, nil
}

// globDirs раскрывает doublestar-шаблон относительно baseDir.
func globDirs(baseDir, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if filepath.IsAbs(pattern) || !doublestar.ValidatePattern(pattern) {
		return nil, &analysis.InvalidConfigurationError{
			Field:  "project.classGlobs",
			Value:  pattern,
			Reason: "must be a valid pattern relative to project.baseDir",
		}
	}
	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern)
	if err != nil {
		return nil, fmt.Errorf("поиск директорий классов по %q: %w", pattern, err)
	}
	slices.Sort(matches)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(baseDir, filepath.FromSlash(m)))
	}
	return out, nil
}
