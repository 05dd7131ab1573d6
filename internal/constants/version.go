package constants

// Информация о сборке, задаётся через -ldflags:
//
//	go build -ldflags "-X github.com/Kargones/findbugs-ci/internal/constants.Version=1.4.0"
var (
	Version       = "dev"
	PreCommitHash = "unknown"
)
