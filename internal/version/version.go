// Package version holds the build version, overridable at link time:
//
//	go build -ldflags "-X phtnsrc/internal/version.Version=v0.2.0" ./cmd/phtn-src
package version

var Version = "dev"
