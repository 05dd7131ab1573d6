// Package repositorytest предоставляет мок-реализацию repository.Resolver.
package repositorytest

import (
	"context"
	"path"

	"github.com/Kargones/findbugs-ci/internal/adapter/repository"
)

// Compile-time проверка реализации интерфейса.
var _ repository.Resolver = (*MockResolver)(nil)

// MockResolver — мок repository.Resolver с функциональным полем.
type MockResolver struct {
	// ResolveFunc — пользовательская реализация Resolve.
	ResolveFunc func(ctx context.Context, coords []repository.Coordinate) (map[repository.Coordinate]string, error)
	// Calls — координаты всех вызовов Resolve.
	Calls [][]repository.Coordinate
}

// Resolve вызывает ResolveFunc. Без неё каждая координата разрешается
// в "/m2/<RelPath>".
func (m *MockResolver) Resolve(ctx context.Context, coords []repository.Coordinate) (map[repository.Coordinate]string, error) {
	m.Calls = append(m.Calls, coords)
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, coords)
	}
	out := make(map[repository.Coordinate]string, len(coords))
	for _, c := range coords {
		out[c] = path.Join("/m2", c.RelPath())
	}
	return out, nil
}
