package constants

import "os"

// Права на директории.
const (
	// DirPermStandard — рабочая директория и локальный репозиторий (rwxr-x---).
	DirPermStandard os.FileMode = 0o750
	// DirPermExec — каталоги отчётов, читаемые сайт-генератором (rwxr-xr-x).
	DirPermExec os.FileMode = 0o755
)

// Права на файлы.
const (
	// FilePermReadWrite — материализованные ресурсы и отчёты.
	FilePermReadWrite os.FileMode = 0o644
	// FilePermPrivate — файлы с секретами.
	FilePermPrivate os.FileMode = 0o600
)
