package semexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		raw      string
		segments []string
		wantErr  bool
	}{
		{raw: "1.2.0", segments: []string{"1", "2", "0"}},
		{raw: "1.2.*", segments: []string{"1", "2", "*"}},
		{raw: "14", segments: []string{"14"}},
		{raw: "v1.0-beta", segments: []string{"v1", "0-beta"}},
		{raw: "", wantErr: true},
		{raw: "1.0+build", wantErr: true},
		{raw: "1 0", wantErr: true},
		{raw: ">1.0", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			v, err := ParseVersion(test.raw)
			if test.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.segments, v.Segments())
			assert.Equal(t, test.raw, v.String())
		})
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		left, right string
		expected    int
	}{
		{left: "1.2.0", right: "1.2.0", expected: 0},
		{left: "1.10.0", right: "1.9.0", expected: 1},
		{left: "1.9", right: "1.10", expected: -1},
		{left: "01.2", right: "1.2", expected: 0},
		{left: "1.2", right: "1.2.5", expected: 0},
		{left: "1.*.3", right: "1.7.3", expected: 0},
		{left: "1.*.3", right: "1.7.4", expected: -1},
		{left: "2.a", right: "2.B", expected: 1},
		{left: "2.10a", right: "2.9a", expected: -1},
		{left: "99999999999999999999999", right: "99999999999999999999998", expected: 1},
	}

	for _, test := range tests {
		t.Run(test.left+"_vs_"+test.right, func(t *testing.T) {
			left, err := ParseVersion(test.left)
			require.NoError(t, err)
			right, err := ParseVersion(test.right)
			require.NoError(t, err)
			assert.Equal(t, test.expected, left.compare(right))
			assert.Equal(t, -test.expected, right.compare(left))
		})
	}
}
