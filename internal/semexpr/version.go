package semexpr

import (
	"fmt"
	"strings"
)

const wildcard = "*"

// Version is a dotted version split into comparable segments. A "*" segment
// matches anything at its position.
type Version struct {
	Raw      string
	segments []string
}

// ParseVersion tokenises raw. Only the empty string and characters outside
// [0-9A-Za-z.*-] are rejected.
func ParseVersion(raw string) (Version, error) {
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty version", ErrMalformedVersion)
	}
	for i := 0; i < len(raw); i++ {
		if !isVersionChar(raw[i]) {
			return Version{}, fmt.Errorf("%w: %q has invalid character %q at %d", ErrMalformedVersion, raw, raw[i], i)
		}
	}
	return Version{Raw: raw, segments: strings.Split(raw, ".")}, nil
}

// IsValidVersionString reports whether raw would be accepted by ParseVersion.
func IsValidVersionString(raw string) bool {
	_, err := ParseVersion(raw)
	return err == nil
}

// Segments returns a copy of the parsed segments.
func (v Version) Segments() []string {
	out := make([]string, len(v.segments))
	copy(out, v.segments)
	return out
}

func (v Version) String() string {
	return v.Raw
}

// compare orders v against other segment by segment. Wildcards and missing
// trailing segments on either side are treated as equal to anything.
func (v Version) compare(other Version) int {
	n := len(v.segments)
	if len(other.segments) < n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		a, b := v.segments[i], other.segments[i]
		if a == wildcard || b == wildcard {
			continue
		}
		if c := compareSegment(a, b); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(a, b string) int {
	if isNumeric(a) && isNumeric(b) {
		return compareNumeric(a, b)
	}
	return strings.Compare(a, b)
}

// compareNumeric compares two digit strings of any length without overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isVersionChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '.', c == '*', c == '-':
		return true
	}
	return false
}
