// Package smoketest содержит smoke-тесты системной целостности findbugs-ci.
//
// Smoke-тесты проверяют:
//   - регистрацию всех команд через handlers.RegisterAll
//   - deprecated алиас findbugs (DeprecatedBridge)
//   - что каждая команда пишет в stdout ровно один валидный JSON-результат
//
// Unit-тесты бизнес-логики находятся в _test.go каждого handler-пакета.
package smoketest
