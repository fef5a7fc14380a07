// Package version reports the build version, set through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	gitTag    = "v0.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Get returns the version string of the running binary.
func Get() string {
	return fmt.Sprintf("%s/%s/%s built at %s with %s",
		gitTag, gitCommit, runtime.GOOS+"-"+runtime.GOARCH, buildDate, runtime.Version())
}
