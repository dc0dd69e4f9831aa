package version

import (
	"strings"
	"testing"
)

func TestVersionComponents(t *testing.T) {
	// Version собирается из раскрашенных сегментов; цифры и суффикс должны
	// присутствовать независимо от того, включены ли escape-коды.
	for _, part := range []string{"0", "1", "-dev"} {
		if !strings.Contains(Version, part) {
			t.Errorf("Version %q missing %q", Version, part)
		}
	}
}

func TestBuildMetadataOverridable(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123"
	BuildDate = "2026-08-31T00:00:00Z"
	if GitCommit != "abc123" || BuildDate != "2026-08-31T00:00:00Z" {
		t.Errorf("ldflags-style override failed: %q %q", GitCommit, BuildDate)
	}
}
