// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X gyaanseek_cli/pkg/version.Version=..." at build.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Platform returns the os/arch pair of this build.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary returns "version" or "version (shortcommit)" for display.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" {
		return v
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}

// Full returns the long form shown by --version and /version.
func Full() string {
	s := Summary()
	if Date != "" {
		s += " built " + Date
	}
	return s + " " + runtime.Version()
}
