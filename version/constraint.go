package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// ParseVersion parses a semver string into its packed ordinal, using
// Masterminds/semver/v3 for the actual semver grammar (pre-release and
// build-metadata parsing, leading "v", etc.) rather than hand-rolling one.
func ParseVersion(s string) (Num, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return 0, err
	}
	return pack(v.Major(), v.Minor(), v.Patch()), nil
}

// MustParseVersion is ParseVersion, panicking on a malformed input; intended
// for tests and literal version tables, not for parsing untrusted input.
func MustParseVersion(s string) Num {
	n, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return n
}

// MustParseRange is ParseRange, panicking on a malformed input; intended for
// tests and literal scenario tables, not for parsing untrusted input.
func MustParseRange(key, expr string) Range {
	r, err := ParseRange(key, expr)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRange parses a comma/pipe-separated constraint expression into a
// Range for key, building one interval per comparison clause and combining
// clauses within a comma-separated group by intersection, and groups
// separated by "||" by union — the same two-level grammar
// Masterminds/semver/v3's own Constraints type accepts. Each individual
// clause is validated against that package's grammar before being turned
// into bounds, so malformed input is rejected the same way the teacher
// stack rejects it elsewhere.
func ParseRange(key, expr string) (Range, error) {
	groups := strings.Split(expr, "||")
	var result Set[Num]
	first := true
	for _, group := range groups {
		set, err := parseAndGroup(group)
		if err != nil {
			return Range{}, errors.Wrapf(err, "parsing constraint %q for %s", expr, key)
		}
		if first {
			result = set
			first = false
			continue
		}
		result = result.Union(set)
	}
	return Range{PackageKey: key, Versions: result}, nil
}

func parseAndGroup(group string) (Set[Num], error) {
	clauses := strings.Split(group, ",")
	full := fullSet()
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		iv, err := parseClause(clause)
		if err != nil {
			return Set[Num]{}, errors.Wrapf(err, "clause %q", clause)
		}
		full = full.Intersection(iv)
	}
	return full, nil
}

// fullSet stands in for "unbounded": every Num from 0 to the encoding's
// ceiling, which is as close to "all versions" as a closed interval algebra
// gets.
func fullSet() Set[Num] {
	return Single(Num(0), Num(^uint64(0)))
}

func parseClause(clause string) (Set[Num], error) {
	op, rest := splitOperator(clause)
	switch op {
	case "^":
		return caretRange(rest)
	case "~":
		return tildeRange(rest)
	case ">=":
		v, err := validated(rest)
		if err != nil {
			return Set[Num]{}, err
		}
		return Single(v, Num(^uint64(0))), nil
	case ">":
		v, err := validated(rest)
		if err != nil {
			return Set[Num]{}, err
		}
		return Single(v+1, Num(^uint64(0))), nil
	case "<=":
		v, err := validated(rest)
		if err != nil {
			return Set[Num]{}, err
		}
		return Single(0, v+1), nil
	case "<":
		v, err := validated(rest)
		if err != nil {
			return Set[Num]{}, err
		}
		return Single(0, v), nil
	case "=", "":
		v, err := validated(rest)
		if err != nil {
			return Set[Num]{}, err
		}
		return Single(v, v+1), nil
	default:
		return Set[Num]{}, errors.Wrapf(semver.ErrInvalidSemVer, "unrecognized operator in %q", clause)
	}
}

func splitOperator(clause string) (op, rest string) {
	for _, candidate := range []string{">=", "<=", "^", "~", ">", "<", "="} {
		if strings.HasPrefix(clause, candidate) {
			return candidate, strings.TrimSpace(strings.TrimPrefix(clause, candidate))
		}
	}
	return "", clause
}

func validated(s string) (Num, error) {
	return ParseVersion(s)
}

// caretRange implements npm/cargo-style "^1.2.3": allows patch and minor
// upgrades that don't change the leftmost non-zero component.
func caretRange(s string) (Set[Num], error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Set[Num]{}, err
	}
	low := pack(v.Major(), v.Minor(), v.Patch())
	var high Num
	switch {
	case v.Major() > 0:
		high = pack(v.Major()+1, 0, 0)
	case v.Minor() > 0:
		high = pack(0, v.Minor()+1, 0)
	default:
		high = pack(0, 0, v.Patch()+1)
	}
	return Single(low, high), nil
}

// tildeRange implements "~1.2.3": allows patch upgrades only, pinning
// major.minor.
func tildeRange(s string) (Set[Num], error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Set[Num]{}, err
	}
	low := pack(v.Major(), v.Minor(), v.Patch())
	high := pack(v.Major(), v.Minor()+1, 0)
	return Single(low, high), nil
}
