package semexpr

import (
	"fmt"
	"strings"
)

// ComparatorSet is a conjunction of comparators written space separated.
type ComparatorSet []Comparator

// ParseComparatorSet parses one AND group.
func ParseComparatorSet(expr string) (ComparatorSet, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty comparator group", ErrMalformedExpression)
	}
	set := make(ComparatorSet, 0, len(tokens))
	for _, token := range tokens {
		c, err := ParseComparator(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedExpression, err)
		}
		set = append(set, c)
	}
	return set, nil
}

// Evaluate is true only when every comparator is satisfied.
func (s ComparatorSet) Evaluate(candidate Version) bool {
	for _, c := range s {
		if !c.Evaluate(candidate) {
			return false
		}
	}
	return true
}

func (s ComparatorSet) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
