package fvupgrader

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

// BumpType names one of the three candidate ranks.
type BumpType int

const (
	// BumpNone means no rank was requested; the orchestrator prompts instead.
	BumpNone BumpType = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

// String returns the keyword used on the command line for the bump type.
func (b BumpType) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "none"
	}
}

// Rank is the 1-based candidate index selecting this bump type.
func (b BumpType) Rank() int {
	return int(b)
}

// Version is a major.minor.patch+build version as stored in pubspec.yaml.
type Version struct {
	Major int
	Minor int
	Patch int
	Build int
}

var versionStringRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\+(\d+)$`)

// ParseVersion parses a version string in the format "M.m.p+b".
func ParseVersion(s string) (Version, error) {
	m := versionStringRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version format: %q (expected M.m.p+b)", s)
	}

	var parts [4]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q: %w", m[i+1], err)
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2], Build: parts[3]}, nil
}

// String returns the version in "M.m.p+b" format.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d+%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Tag returns the git tag name for the version.
func (v Version) Tag() string {
	return "v" + v.String()
}

// Bump returns the candidate for the given rank. The build number is carried over unchanged.
func (v Version) Bump(b BumpType) Version {
	switch b {
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, Build: v.Build}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0, Build: v.Build}
	case BumpMajor:
		return Version{Major: v.Major + 1, Minor: 0, Patch: 0, Build: v.Build}
	default:
		return v
	}
}

// Candidates returns the next versions in the fixed order patch, minor, major.
func (v Version) Candidates() [3]Version {
	return [3]Version{v.Bump(BumpPatch), v.Bump(BumpMinor), v.Bump(BumpMajor)}
}

// Less reports whether v precedes o. Build numbers are ignored, as in semver precedence.
func (v Version) Less(o Version) bool {
	return semver.Compare(v.Tag(), o.Tag()) < 0
}

// SelectCandidate returns the candidate at the 1-based index.
func SelectCandidate(candidates [3]Version, index int) (Version, error) {
	if index < 1 || index > len(candidates) {
		return Version{}, &Error{
			Code:    ErrCodeInvalidSelection,
			Message: fmt.Sprintf("selection %d is out of range 1..%d", index, len(candidates)),
			Context: map[string]any{"index": index},
		}
	}
	return candidates[index-1], nil
}

// ParseSelection parses a 1-based candidate index typed by the user.
func ParseSelection(input string) (int, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, wrapWithContext(ErrCodeInvalidSelection, fmt.Sprintf("selection %q is not a number", input), err,
			map[string]any{"input": input})
	}
	return n, nil
}

// validateCandidate checks the candidate tag is valid semver before anything is written.
func validateCandidate(v Version) error {
	if !semver.IsValid(v.Tag()) {
		return newError(ErrCodeInvalidSelection, fmt.Sprintf("candidate %s is not a valid semantic version", v))
	}
	return nil
}
