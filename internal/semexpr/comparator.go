package semexpr

import (
	"fmt"
	"strings"
)

// Comparator is one operator/version bound, e.g. ">=1.2.0".
type Comparator struct {
	Operator Operator
	Bound    Version
	any      bool
}

// ParseComparator parses a single whitespace-free token. The bare token "*"
// matches every version.
func ParseComparator(token string) (Comparator, error) {
	if token == wildcard {
		return Comparator{Operator: EQ, any: true}, nil
	}
	split := strings.IndexFunc(token, func(r rune) bool {
		return r != '<' && r != '>' && r != '='
	})
	if split < 0 {
		return Comparator{}, fmt.Errorf("%w: %q has no version", ErrMalformedComparator, token)
	}
	op, err := ParseOperator(token[:split])
	if err != nil {
		return Comparator{}, fmt.Errorf("%w: %q: %v", ErrMalformedComparator, token, err)
	}
	bound, err := ParseVersion(token[split:])
	if err != nil {
		return Comparator{}, fmt.Errorf("%w: %q: %w", ErrMalformedComparator, token, err)
	}
	return Comparator{Operator: op, Bound: bound}, nil
}

// MatchesAny reports whether this is the "*" comparator.
func (c Comparator) MatchesAny() bool {
	return c.any
}

// Evaluate reports whether candidate satisfies the bound.
func (c Comparator) Evaluate(candidate Version) bool {
	if c.any {
		return true
	}
	return c.Operator.Holds(candidate.compare(c.Bound))
}

func (c Comparator) String() string {
	if c.any {
		return wildcard
	}
	return string(c.Operator) + c.Bound.Raw
}
