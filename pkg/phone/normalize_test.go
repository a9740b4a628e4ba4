package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantValid  bool
		wantStored string
		wantErr    bool
	}{
		{
			name:       "US number with punctuation",
			raw:        "(202) 456-1111",
			wantValid:  true,
			wantStored: "+12024561111",
		},
		{
			name:       "US number with country code",
			raw:        "+1 202 456 1111",
			wantValid:  true,
			wantStored: "+12024561111",
		},
		{
			name:       "UK number",
			raw:        "+44 20 7946 0958",
			wantValid:  true,
			wantStored: "+442079460958",
		},
		{
			name:       "too short keeps raw input",
			raw:        " 12345 ",
			wantValid:  false,
			wantStored: "12345",
		},
		{
			name:    "letters only",
			raw:     "call me",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.raw, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, r.Valid)
			assert.Equal(t, tt.wantStored, r.Stored())
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "(202) 456-1111", Display("+12024561111"))
	assert.Equal(t, "+44 20 7946 0958", Display("+442079460958"))
	assert.Equal(t, "not a phone", Display("not a phone"))
}
