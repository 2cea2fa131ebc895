package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Number
		wantErr bool
	}{
		{name: "number", input: `12.5`, want: 12.5},
		{name: "numeric string", input: `"1000"`, want: 1000},
		{name: "padded string", input: `" 42 "`, want: 42},
		{name: "empty string", input: `""`, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "word", input: `"lots"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
		{name: "nan string", input: `"NaN"`, wantErr: true},
		{name: "infinity string", input: `"Infinity"`, wantErr: true},
		{name: "negative inf string", input: `"-Inf"`, wantErr: true},
		{name: "out of range", input: `1e400`, wantErr: true},
		{name: "out of range string", input: `"1e400"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}
