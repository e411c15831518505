package semexpr

import "fmt"

// Operator is the relation a Comparator requires between a candidate
// version and its bound.
type Operator string

// Operators accepted in front of a comparator bound. A bound with no
// operator means EQ.
const (
	EQ  Operator = "="
	GT  Operator = ">"
	LT  Operator = "<"
	GTE Operator = ">="
	LTE Operator = "<="
)

// relations maps each operator to the compare results (-1, 0, 1 for
// candidate below, equal to, above the bound) it accepts.
var relations = map[Operator][3]bool{
	LT:  {true, false, false},
	LTE: {true, true, false},
	EQ:  {false, true, false},
	GTE: {false, true, true},
	GT:  {false, false, true},
}

// ParseOperator reads the operator prefix of a comparator token.
func ParseOperator(prefix string) (Operator, error) {
	if prefix == "" {
		return EQ, nil
	}
	op := Operator(prefix)
	if _, ok := relations[op]; !ok {
		return "", fmt.Errorf("unknown operator %q", prefix)
	}
	return op, nil
}

// Holds reports whether a compare result satisfies o. Unknown operators
// never hold.
func (o Operator) Holds(cmp int) bool {
	accepted, ok := relations[o]
	if !ok {
		return false
	}
	switch {
	case cmp < 0:
		return accepted[0]
	case cmp > 0:
		return accepted[2]
	}
	return accepted[1]
}
