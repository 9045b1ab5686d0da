// Package build provides domain entities for build information.
package build

import "fmt"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// String renders a one-line version banner.
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "dev"
	}
	if i.Commit == "" {
		return "pipewin " + version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("pipewin %s (%s, built %s, %s)", version, commit, i.BuildDate, i.GoVersion)
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/pipewin"
}
