// Package versioncheck implements the #language version pragma: a source
// program may declare the range of translator versions it expects to run
// under, and the driver rejects an input whose pragma the running
// translator's version does not satisfy. Adapted from
// internal/packagemanager's semver constraint handling (resolver_ref.go),
// re-homed from dependency-version resolution onto a single version check
// (SPEC_FULL.md §3/§4).
package versioncheck

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
)

// Pragma is one parsed "#language \"<constraint>\"." declaration.
type Pragma struct {
	Constraint string
}

// Check reports whether runningVersion satisfies pragma's constraint. An
// empty constraint always succeeds — #language is optional.
func Check(pragma Pragma, runningVersion string) error {
	if pragma.Constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(pragma.Constraint)
	if err != nil {
		return fmt.Errorf("invalid #language constraint %q: %w", pragma.Constraint, err)
	}

	v, err := semver.NewVersion(runningVersion)
	if err != nil {
		return fmt.Errorf("invalid running translator version %q: %w", runningVersion, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("this program requires translator version %s, running %s", pragma.Constraint, runningVersion)
	}

	return nil
}
