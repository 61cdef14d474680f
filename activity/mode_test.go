package activity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_String(t *testing.T) {
	assert.Equal(t, "hidden", ModeHidden.String())
	assert.Equal(t, "visible", ModeVisible.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestMode_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ModeVisible)
	require.NoError(t, err)
	assert.Equal(t, `"visible"`, string(data))

	data, err = json.Marshal(ModeHidden)
	require.NoError(t, err)
	assert.Equal(t, `"hidden"`, string(data))
}

func TestMode_UnmarshalJSON(t *testing.T) {
	var m Mode
	require.NoError(t, json.Unmarshal([]byte(`"visible"`), &m))
	assert.Equal(t, ModeVisible, m)

	assert.Error(t, json.Unmarshal([]byte(`"gone"`), &m))
	assert.Error(t, json.Unmarshal([]byte(`7`), &m))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "visible", want: ModeVisible},
		{input: "hidden", want: ModeHidden},
		{input: "Visible", wantErr: true},
		{input: "", wantErr: true},
		{input: "gone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
