package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"path": "src/main.go", "count": 3.0}

	s, err := StringArg(args, "path")
	require.NoError(t, err)
	assert.Equal(t, "src/main.go", s)

	_, err = StringArg(args, "missing")
	assert.ErrorContains(t, err, "missing is required")

	_, err = StringArg(args, "count")
	assert.ErrorContains(t, err, "count must be a string")
}

func TestOptionalStringArg(t *testing.T) {
	args := map[string]interface{}{"encoding": "utf-8", "bad": 1.0}

	s, err := OptionalStringArg(args, "encoding", "ascii")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", s)

	s, err = OptionalStringArg(args, "missing", "ascii")
	require.NoError(t, err)
	assert.Equal(t, "ascii", s)

	_, err = OptionalStringArg(args, "bad", "")
	assert.Error(t, err)
}

func TestOptionalBoolArg(t *testing.T) {
	args := map[string]interface{}{"recursive": true, "bad": "yes"}

	b, err := OptionalBoolArg(args, "recursive", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = OptionalBoolArg(args, "missing", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = OptionalBoolArg(args, "bad", false)
	assert.Error(t, err)
}

func TestOptionalIntArg(t *testing.T) {
	args := map[string]interface{}{"depth": 3.0, "ratio": 1.5, "bad": "2"}

	n, err := OptionalIntArg(args, "depth", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = OptionalIntArg(args, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = OptionalIntArg(args, "ratio", 0)
	assert.ErrorContains(t, err, "ratio must be an integer")

	_, err = OptionalIntArg(args, "bad", 0)
	assert.Error(t, err)
}

func TestOptionalFloatArg(t *testing.T) {
	args := map[string]interface{}{"confidence": 0.8}

	f, err := OptionalFloatArg(args, "confidence", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.8, f)

	f, err = OptionalFloatArg(args, "missing", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)
}

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		param   interface{}
		want    []string
		wantErr string
	}{
		{name: "single string", param: "a.txt", want: []string{"a.txt"}},
		{name: "array", param: []interface{}{"a.txt", "b.txt"}, want: []string{"a.txt", "b.txt"}},
		{name: "nil", param: nil, wantErr: "files is required"},
		{name: "empty string", param: "", wantErr: "files cannot be empty"},
		{name: "empty array", param: []interface{}{}, wantErr: "files cannot be empty"},
		{name: "non-string element", param: []interface{}{"a.txt", 2.0}, wantErr: "files[1] must be a string"},
		{name: "empty element", param: []interface{}{"a.txt", ""}, wantErr: "files[1] cannot be empty"},
		{name: "wrong type", param: 42.0, wantErr: "files must be a string or array of strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.param, "files")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
