// Package version exposes the build version injected at link time.
package version

// version is set via -ldflags at build time. See magefile.go.
var version = "dev"

// Value returns the build version string.
func Value() string {
	return version
}
