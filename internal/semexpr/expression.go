package semexpr

import (
	"strings"
	"unicode"
)

const orSeparator = "|"

// Expression is a disjunction of ComparatorSets, the stored targeting rule
// for one version dimension.
type Expression struct {
	Raw    string
	Groups []ComparatorSet
}

// ParseExpression parses "a b|c" style expressions. Errors are always
// *ExpressionError values locating the offending group and token.
func ParseExpression(expr string) (Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return Expression{}, &ExpressionError{Expr: expr, Err: ErrMalformedExpression}
	}
	parts := strings.Split(expr, orSeparator)
	groups := make([]ComparatorSet, 0, len(parts))
	offset := 0
	for idx, part := range parts {
		tokens := fieldsWithOffsets(part)
		if len(tokens) == 0 {
			return Expression{}, &ExpressionError{Expr: expr, Group: idx, Offset: offset, Err: ErrMalformedExpression}
		}
		set := make(ComparatorSet, 0, len(tokens))
		for _, tok := range tokens {
			c, err := ParseComparator(tok.text)
			if err != nil {
				return Expression{}, &ExpressionError{
					Expr:   expr,
					Group:  idx,
					Offset: offset + tok.offset,
					Token:  tok.text,
					Err:    err,
				}
			}
			set = append(set, c)
		}
		groups = append(groups, set)
		offset += len(part) + len(orSeparator)
	}
	return Expression{Raw: expr, Groups: groups}, nil
}

// Validate checks expr against the OR-of-AND grammar.
func Validate(expr string) error {
	_, err := ParseExpression(expr)
	return err
}

// Evaluate is true when any group is satisfied.
func (e Expression) Evaluate(candidate Version) bool {
	for _, group := range e.Groups {
		if group.Evaluate(candidate) {
			return true
		}
	}
	return false
}

// EvaluateExpression parses expr and evaluates it against candidate.
func EvaluateExpression(expr string, candidate Version) (bool, error) {
	parsed, err := ParseExpression(expr)
	if err != nil {
		return false, err
	}
	return parsed.Evaluate(candidate), nil
}

func (e Expression) String() string {
	parts := make([]string, len(e.Groups))
	for i, g := range e.Groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, orSeparator)
}

type field struct {
	text   string
	offset int
}

func fieldsWithOffsets(s string) []field {
	var (
		out   []field
		start = -1
	)
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, field{text: s[start:i], offset: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, field{text: s[start:], offset: start})
	}
	return out
}
