package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr bool
	}{
		{name: "single string", input: "test123", want: []string{"test123"}},
		{name: "array of strings", input: []interface{}{"id1", "id2"}, want: []string{"id1", "id2"}},
		{name: "nil input", input: nil, wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "empty array", input: []interface{}{}, wantErr: true},
		{name: "array with non-string", input: []interface{}{"id1", 123}, wantErr: true},
		{name: "array with empty string", input: []interface{}{"id1", ""}, wantErr: true},
		{name: "number", input: 12.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "testParam")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []int
		wantErr bool
	}{
		{name: "single number", input: 3.0, want: []int{3}},
		{name: "array", input: []interface{}{1.0, 3.0, 5.0}, want: []int{1, 3, 5}},
		{name: "fraction", input: 1.5, wantErr: true},
		{name: "array with fraction", input: []interface{}{1.0, 2.5}, wantErr: true},
		{name: "array with string", input: []interface{}{"1"}, wantErr: true},
		{name: "empty array", input: []interface{}{}, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
		{name: "string", input: "1,2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntOrArray(tt.input, "days")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalarArgs(t *testing.T) {
	args := map[string]interface{}{
		"n":      30.0,
		"frac":   1.5,
		"flag":   true,
		"text":   "yes",
		"when":   "2025-01-06T09:00:00Z",
		"broken": "monday",
	}

	n, err := IntArg(args, "n", 7)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = IntArg(args, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = IntArg(args, "frac", 7)
	assert.Error(t, err)
	_, err = IntArg(args, "text", 7)
	assert.Error(t, err)

	b, err := BoolArg(args, "flag", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = BoolArg(args, "missing", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = BoolArg(args, "text", false)
	assert.Error(t, err)

	when, err := TimeArg(args, "when")
	require.NoError(t, err)
	assert.True(t, when.Equal(time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)))

	_, err = TimeArg(args, "broken")
	assert.Error(t, err)
	_, err = TimeArg(args, "missing")
	assert.EqualError(t, err, "missing is required")
}
