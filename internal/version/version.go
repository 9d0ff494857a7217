// Package version exposes the compiled-in version of sshd-command.
//
// Templates declare the minimum sshd-command version they require in their
// front matter, so the running version must be available both as a display
// string and as a parsed semantic version for precedence comparison.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo returns version and build information for display.
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   GetVersion(),
		GitCommit: GetGitCommit(),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String formats the build info the way --version displays it.
func (b *BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, %s, %s)", b.Version, b.GitCommit, b.GoVersion, b.Platform)
}

// GetVersion returns the application version string.
func GetVersion() string {
	return Version
}

// GetGitCommit returns the git commit hash.
func GetGitCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}

	// Fall back to debug build info when built without ldflags
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

// Semver returns the running program's version parsed as a semantic version.
// Front-matter validation compares template minimum versions against it.
func Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("compiled-in version %q is not a valid semantic version: %w", Version, err)
	}
	return v, nil
}
