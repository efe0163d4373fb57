package pgutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name string
		v    []float32
		want string
	}{
		{name: "nil slice", v: nil, want: "[]"},
		{name: "empty slice", v: []float32{}, want: "[]"},
		{name: "single element", v: []float32{0.5}, want: "[0.5]"},
		{name: "integer values", v: []float32{1, 2, 3}, want: "[1,2,3]"},
		{name: "negative values", v: []float32{-0.5, 0, 0.5}, want: "[-0.5,0,0.5]"},
		{name: "embedding sample", v: []float32{0.123, -0.456, 0.789}, want: "[0.123,-0.456,0.789]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatVector(tt.v))
		})
	}
}

func TestParseVector(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []float32
		wantErr bool
	}{
		{name: "empty vector", in: "[]", want: []float32{}},
		{name: "single element", in: "[0.5]", want: []float32{0.5}},
		{name: "spaces around elements", in: "[0.1, -0.2, 0.3]", want: []float32{0.1, -0.2, 0.3}},
		{name: "missing brackets", in: "0.1,0.2", wantErr: true},
		{name: "non-numeric element", in: "[0.1,abc]", wantErr: true},
		{name: "empty string", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVector(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	v := []float32{0.0001, -1000.5, 0, 1.5}
	got, err := ParseVector(FormatVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)
}
