package modrelease

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BumpKind selects which component of a Version is incremented.
type BumpKind string

const (
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

// ParseBumpKind validates a bump directive. The empty string means patch.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(s) {
	case "", BumpPatch:
		return BumpPatch, nil
	case BumpMinor, BumpMajor:
		return BumpKind(s), nil
	}
	return "", fmt.Errorf("unknown bump argument: %s", s)
}

// Version is a major.minor.patch triple. Versions are ordered by comparing
// the components left to right.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseVersion parses exactly three dot separated non-negative integers.
// Prefixes, prerelease and build suffixes are rejected.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("unexpected version format: %q", s)
	}
	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return Version{}, fmt.Errorf("%w: %q", ErrVersionOverflow, s)
		}
		if err != nil {
			return Version{}, fmt.Errorf("unexpected version format: %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint(v.Minor, o.Minor)
	default:
		return cmpUint(v.Patch, o.Patch)
	}
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Bump returns the next version. Lower components are reset to zero.
// ErrVersionOverflow is returned when the component is already at its maximum.
func (v Version) Bump(kind BumpKind) (Version, error) {
	sv := semver.New(v.Major, v.Minor, v.Patch, "", "")
	var (
		next semver.Version
		part uint64
	)
	switch kind {
	case "", BumpPatch:
		part, next = v.Patch, sv.IncPatch()
	case BumpMinor:
		part, next = v.Minor, sv.IncMinor()
	case BumpMajor:
		part, next = v.Major, sv.IncMajor()
	default:
		return Version{}, fmt.Errorf("unknown bump argument: %s", kind)
	}
	if part == math.MaxUint64 {
		return Version{}, fmt.Errorf("%w: cannot bump %s of %s", ErrVersionOverflow, kind, v)
	}
	return Version{Major: next.Major(), Minor: next.Minor(), Patch: next.Patch()}, nil
}

// tagPattern matches "<prefix>X.Y.Z" with nothing before or after.
func tagPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d+\.\d+\.\d+)$`)
}

// LatestVersion returns the highest version among tags named
// "<prefix>X.Y.Z". Tags with any other shape are ignored. ErrNoVersions is
// returned when nothing matches, ErrVersionOverflow when a matching tag has
// a component too large to compare.
func LatestVersion(tags []string, prefix string) (Version, error) {
	re := tagPattern(prefix)
	var (
		latest Version
		found  bool
	)
	for _, tag := range tags {
		m := re.FindStringSubmatch(strings.TrimSpace(tag))
		if m == nil {
			continue
		}
		v, err := ParseVersion(m[1])
		if err != nil {
			return Version{}, fmt.Errorf("tag %s: %w", tag, err)
		}
		if !found || latest.Less(v) {
			latest = v
			found = true
		}
	}
	if !found {
		return Version{}, fmt.Errorf("%w: prefix %q", ErrNoVersions, prefix)
	}
	return latest, nil
}
