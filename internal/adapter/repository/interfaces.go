// Package repository разрешает координаты плагинов движка в jar-файлы
// Maven-репозитория.
//
// Resolver — абстракция для сервиса анализа; MavenResolver — реализация
// поверх локального репозитория (~/.m2/repository) и списка удалённых
// репозиториев с опциональной проверкой .asc подписей.
package repository

import (
	"context"
	"fmt"
	"strings"
)

// Resolver разрешает набор координат в пути к локальным файлам артефактов.
type Resolver interface {
	// Resolve возвращает путь для каждой координаты. Любая неразрешённая
	// координата приводит к *ResolutionError; частичный результат не возвращается.
	Resolve(ctx context.Context, coords []Coordinate) (map[Coordinate]string, error)
}

// DefaultType — тип артефакта по умолчанию.
const DefaultType = "jar"

// Coordinate — координата артефакта group:artifact:version[:type[:classifier]].
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Classifier string
}

// ParseCoordinate разбирает строку вида group:artifact:version[:type[:classifier]].
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 3 || len(parts) > 5 {
		return Coordinate{}, fmt.Errorf("координата %q: ожидается group:artifact:version[:type[:classifier]]", s)
	}
	for i, p := range parts[:3] {
		if p == "" {
			return Coordinate{}, fmt.Errorf("координата %q: пустая часть %d", s, i+1)
		}
	}

	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2], Type: DefaultType}
	if len(parts) > 3 && parts[3] != "" {
		c.Type = parts[3]
	}
	if len(parts) > 4 {
		c.Classifier = parts[4]
	}
	return c, nil
}

// ParseCoordinates разбирает список координат, пропуская пустые строки.
func ParseCoordinates(list []string) ([]Coordinate, error) {
	var out []Coordinate
	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			continue
		}
		c, err := ParseCoordinate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// String возвращает координату в каноническом виде.
func (c Coordinate) String() string {
	s := c.GroupID + ":" + c.ArtifactID + ":" + c.Version
	t := c.Type
	if t == "" {
		t = DefaultType
	}
	if t != DefaultType || c.Classifier != "" {
		s += ":" + t
	}
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// RelPath возвращает путь артефакта в Maven-раскладке через '/':
// group/path/artifact/version/artifact-version[-classifier].type
func (c Coordinate) RelPath() string {
	t := c.Type
	if t == "" {
		t = DefaultType
	}
	file := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + t
	return strings.Join([]string{strings.ReplaceAll(c.GroupID, ".", "/"), c.ArtifactID, c.Version, file}, "/")
}
