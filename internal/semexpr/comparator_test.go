package semexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparator(t *testing.T) {
	tests := []struct {
		token    string
		operator Operator
		bound    string
		wantErr  bool
	}{
		{token: ">=1.2.0", operator: GTE, bound: "1.2.0"},
		{token: "<=1.2.0", operator: LTE, bound: "1.2.0"},
		{token: ">1", operator: GT, bound: "1"},
		{token: "<2.0", operator: LT, bound: "2.0"},
		{token: "=3.1.*", operator: EQ, bound: "3.1.*"},
		{token: "3.1.0", operator: EQ, bound: "3.1.0"},
		{token: ">=", wantErr: true},
		{token: "=", wantErr: true},
		{token: "==1.0", wantErr: true},
		{token: "=>1.0", wantErr: true},
		{token: "<>1.0", wantErr: true},
		{token: ">=1.0!", wantErr: true},
		{token: "1.0<2", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.token, func(t *testing.T) {
			c, err := ParseComparator(test.token)
			if test.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedComparator)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.operator, c.Operator)
			assert.Equal(t, test.bound, c.Bound.Raw)
			assert.False(t, c.MatchesAny())
		})
	}
}

func TestComparatorEvaluate(t *testing.T) {
	tests := []struct {
		comparator string
		version    string
		satisfied  bool
	}{
		// exact boundaries
		{comparator: ">=1.2.0", version: "1.2.0", satisfied: true},
		{comparator: ">1.2.0", version: "1.2.0", satisfied: false},
		{comparator: "<=1.2.0", version: "1.2.0", satisfied: true},
		{comparator: "<1.2.0", version: "1.2.0", satisfied: false},
		{comparator: "=1.2.0", version: "1.2.0", satisfied: true},
		{comparator: "1.2.0", version: "1.2.1", satisfied: false},
		{comparator: ">1.2.0", version: "1.2.1", satisfied: true},
		{comparator: "<1.2.0", version: "1.1.99", satisfied: true},
		// wildcard segments
		{comparator: "=1.2.*", version: "1.2.9", satisfied: true},
		{comparator: "=1.2.*", version: "1.3.0", satisfied: false},
		{comparator: "=1.*.5", version: "1.42.5", satisfied: true},
		{comparator: "=1.2.0", version: "1.2.*", satisfied: true},
		{comparator: ">=1.*", version: "0.9", satisfied: false},
		// implicit trailing wildcards
		{comparator: "=1.2", version: "1.2.5", satisfied: true},
		{comparator: "=1.2.5", version: "1.2", satisfied: true},
		{comparator: ">1.2", version: "1.2.5", satisfied: false},
		{comparator: ">=1.2", version: "1.2.5", satisfied: true},
		// numeric versus lexicographic segments
		{comparator: ">=1.10", version: "1.9", satisfied: false},
		{comparator: "<1.10", version: "1.9", satisfied: true},
		{comparator: ">10.B", version: "10.a", satisfied: true},
		{comparator: ">=1.0.0-beta", version: "1.0.0-alpha", satisfied: false},
		// match anything
		{comparator: "*", version: "0.0.1", satisfied: true},
		{comparator: ">=*", version: "7", satisfied: true},
		{comparator: ">*", version: "7", satisfied: false},
	}

	for _, test := range tests {
		t.Run(test.comparator+"_"+test.version, func(t *testing.T) {
			c, err := ParseComparator(test.comparator)
			require.NoError(t, err)
			v, err := ParseVersion(test.version)
			require.NoError(t, err)
			assert.Equal(t, test.satisfied, c.Evaluate(v))
		})
	}
}

func TestParseOperator(t *testing.T) {
	for _, op := range []Operator{EQ, GT, GTE, LT, LTE} {
		parsed, err := ParseOperator(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
	parsed, err := ParseOperator("")
	require.NoError(t, err)
	assert.Equal(t, EQ, parsed)

	_, err = ParseOperator("!=")
	assert.Error(t, err)
}

func TestOperatorHolds(t *testing.T) {
	tests := []struct {
		op    Operator
		below bool
		equal bool
		above bool
	}{
		{op: LT, below: true},
		{op: LTE, below: true, equal: true},
		{op: EQ, equal: true},
		{op: GTE, equal: true, above: true},
		{op: GT, above: true},
		{op: Operator("=="), below: false, equal: false, above: false},
	}
	for _, test := range tests {
		t.Run(string(test.op), func(t *testing.T) {
			assert.Equal(t, test.below, test.op.Holds(-1))
			assert.Equal(t, test.equal, test.op.Holds(0))
			assert.Equal(t, test.above, test.op.Holds(7))
		})
	}
}
