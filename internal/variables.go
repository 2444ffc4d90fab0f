package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// Name of the runtime, used for the binary, log prefix, and directories.
	Name = "doe"

	// Placeholder for a build variable that was not set.
	defaultUndefined = "(undefined)"

	// Version string reported by builds made outside the release pipeline.
	defaultLocalBuild = "(local)"

	// Branch whose builds carry no stage suffix.
	mainBranch = "main"
)

// Set with -ldflags "-X github.com/cruciblehq/doe/internal.<name>=<value>".
var (
	version   = "" // Release version, e.g. "1.2.3" or "v1.2.3".
	stage     = "" // Git branch the build was made from.
	gitCommit = "" // Git commit hash.

	rawQuiet   = "false" // Build-time default for quiet mode.
	rawDebug   = "false" // Build-time default for debug mode.
	rawVerbose = "false" // Build-time default for verbose mode.
)

// Returns a trimmed build variable, or "(undefined)" if it is empty.
func buildVar(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return defaultUndefined
	}
	return v
}

// Returns the release version without a leading "v".
func Version() string {
	v := buildVar(version)
	if v == defaultUndefined {
		return v
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the lowercase branch name the build was made from.
func Stage() string {
	s := buildVar(stage)
	if s == defaultUndefined {
		return s
	}
	return strings.ToLower(s)
}

// Returns the git commit hash of the build.
func GitCommit() string {
	return buildVar(gitCommit)
}

// Returns true unless version, stage and commit were all set at build time.
func IsLocal() bool {
	for _, v := range []string{version, stage, gitCommit} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Returns the version line printed by "doe version".
//
// Local builds report "(local)". Release builds report
// "<version>[+<stage>] <commit> [<arch>]", where the stage is omitted for
// builds of the main branch.
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}

	var suffix string
	if s := Stage(); s != mainBranch {
		suffix = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), suffix, GitCommit(), runtime.GOARCH)
}

// Returns the User-Agent sent to image registries.
func UserAgent() string {
	if IsLocal() {
		return Name + "/dev"
	}
	return Name + "/" + Version()
}
