package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRange_Overlaps(t *testing.T) {
	base := rangeOf(at(7, 10, 0), at(7, 11, 0))

	tests := []struct {
		name     string
		other    TimeRange
		expected bool
	}{
		{
			name:     "identical",
			other:    base,
			expected: true,
		},
		{
			name:     "touching before",
			other:    rangeOf(at(7, 9, 0), at(7, 10, 0)),
			expected: false,
		},
		{
			name:     "touching after",
			other:    rangeOf(at(7, 11, 0), at(7, 12, 0)),
			expected: false,
		},
		{
			name:     "partial overlap at start",
			other:    rangeOf(at(7, 9, 30), at(7, 10, 1)),
			expected: true,
		},
		{
			name:     "partial overlap at end",
			other:    rangeOf(at(7, 10, 59), at(7, 12, 0)),
			expected: true,
		},
		{
			name:     "contained",
			other:    rangeOf(at(7, 10, 15), at(7, 10, 45)),
			expected: true,
		},
		{
			name:     "containing",
			other:    rangeOf(at(7, 8, 0), at(7, 12, 0)),
			expected: true,
		},
		{
			name:     "disjoint",
			other:    rangeOf(at(8, 10, 0), at(8, 11, 0)),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestTimeRange_Valid(t *testing.T) {
	assert.True(t, rangeOf(at(7, 9, 0), at(7, 10, 0)).Valid())
	assert.False(t, rangeOf(at(7, 10, 0), at(7, 10, 0)).Valid())
	assert.False(t, rangeOf(at(7, 11, 0), at(7, 10, 0)).Valid())
}
