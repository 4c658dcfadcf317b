// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0"
package version

var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
