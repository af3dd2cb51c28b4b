package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Fatalf("expected a default version")
	}
}

func TestStringIncludesFingerprints(t *testing.T) {
	origNoColor := color.NoColor
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		color.NoColor = origNoColor
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
	color.NoColor = true

	Version = "1.2.3-rc1"
	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"

	got := String()
	want := "callgen 1.2.3-rc1 (abc123) built 2024-01-15T10:30:00Z"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestColoredKeepsUnparsedVersions(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "dev"
	if got := Colored(); got != "dev" {
		t.Fatalf("expected dev, got %q", got)
	}
	Version = "2.0.1"
	if got := Colored(); !strings.Contains(got, "1") {
		t.Fatalf("expected patch in %q", got)
	}
}

func TestCompatible(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	cases := []struct {
		current, recorded string
		want              bool
	}{
		{"0.1.0-dev", "0.1.0-dev", true},
		{"0.1.4", "0.1.0", true},
		{"0.2.0", "0.1.9", false},
		{"1.4.0", "1.0.2", true},
		{"2.0.0", "1.9.9", false},
	}
	for _, tc := range cases {
		Version = tc.current
		got, err := Compatible(tc.recorded)
		if err != nil {
			t.Fatalf("%s vs %s: unexpected error: %v", tc.current, tc.recorded, err)
		}
		if got != tc.want {
			t.Fatalf("%s vs %s: expected %v, got %v", tc.current, tc.recorded, tc.want, got)
		}
	}
	Version = "1.0.0"
	if _, err := Compatible("nightly"); err == nil {
		t.Fatalf("expected error for an unparsable recorded version")
	}
}
