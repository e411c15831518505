package semexpr

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedVersion indicates a version string that cannot be tokenised.
	ErrMalformedVersion = errors.New("malformed version")
	// ErrMalformedComparator indicates a bad operator/version pair.
	ErrMalformedComparator = errors.New("malformed comparator")
	// ErrMalformedExpression indicates an empty or invalid OR/AND grouping.
	ErrMalformedExpression = errors.New("malformed expression")
)

// ExpressionError reports where in a raw expression parsing failed.
type ExpressionError struct {
	Expr   string
	Group  int // zero-based index of the |-separated group
	Offset int // byte offset of the offending token within Expr
	Token  string
	Err    error
}

func (e *ExpressionError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid expression %q at group %d (offset %d): %v", e.Expr, e.Group, e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid expression %q at group %d (offset %d, token %q): %v", e.Expr, e.Group, e.Offset, e.Token, e.Err)
}

func (e *ExpressionError) Unwrap() error {
	return e.Err
}

// Is lets callers match any ExpressionError against ErrMalformedExpression.
func (e *ExpressionError) Is(target error) bool {
	return target == ErrMalformedExpression
}
