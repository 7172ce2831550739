package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckVersion verifies that version satisfies the semver constraint. An empty
// constraint always passes. Builds whose version is not semver (e.g. "dev")
// are not gated.
func CheckVersion(constraint, version string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing required_version %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}

	if !c.Check(v) {
		return fmt.Errorf("version %s does not satisfy required_version %q", v, constraint)
	}
	return nil
}
