package services

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// DefaultClientVersion is assumed when a request carries no version header.
const DefaultClientVersion = "0.0.0"

// VersionComparator reports whether version is older than minimum.
type VersionComparator interface {
	Less(version, minimum string) bool
}

// SemverComparator orders major.minor.patch numerically, so 10.0.0 is newer
// than 2.0.0. Versions that do not parse sort below every valid version,
// including numeric parts with leading zeros such as "02.0.0".
type SemverComparator struct{}

func (SemverComparator) Less(version, minimum string) bool {
	return semver.Compare(canonical(version), canonical(minimum)) < 0
}

func canonical(version string) string {
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

// LexicographicComparator compares raw strings, byte by byte. This keeps
// the behaviour of deployed clients that were gated on string order, where
// "10.0.0" < "2.0.0".
type LexicographicComparator struct{}

func (LexicographicComparator) Less(version, minimum string) bool {
	return version < minimum
}

// NewVersionComparator returns the comparator for mode "semver" or "lexicographic".
func NewVersionComparator(mode string) (VersionComparator, error) {
	switch strings.ToLower(mode) {
	case "", "semver":
		return SemverComparator{}, nil
	case "lexicographic":
		return LexicographicComparator{}, nil
	}
	return nil, errors.Errorf("unknown version comparison %q", mode)
}
