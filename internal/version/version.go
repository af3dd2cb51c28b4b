// Package version holds build fingerprints of the callgen CLI.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with its major, minor and patch parts colored.
// Versions that do not parse are returned as is.
func Colored() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	s := versionMajorColor.Sprint(v.Major()) + "." +
		versionMinorColor.Sprint(v.Minor()) + "." +
		versionPatchColor.Sprint(v.Patch())
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		s += "+" + meta
	}
	return s
}

// String renders the full version line.
func String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "callgen %s", Colored())
	if GitCommit != "" {
		fmt.Fprintf(&sb, " (%s)", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, " built %s", BuildDate)
	}
	return sb.String()
}

// Compatible reports whether programs recorded by release recorded replay
// the same under the running Version. Generation may change between minor
// releases before 1.0 and between major releases after it.
func Compatible(recorded string) (bool, error) {
	cur, err := semver.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("version %q: %w", Version, err)
	}
	rec, err := semver.NewVersion(recorded)
	if err != nil {
		return false, fmt.Errorf("recorded version %q: %w", recorded, err)
	}
	if cur.Major() != rec.Major() {
		return false, nil
	}
	return cur.Major() > 0 || cur.Minor() == rec.Minor(), nil
}
