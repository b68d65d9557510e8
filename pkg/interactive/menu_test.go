package interactive

import (
	"testing"

	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/stretchr/testify/assert"
)

func TestSampleCountValidator(t *testing.T) {
	tests := []struct {
		input   interface{}
		wantErr bool
	}{
		{input: "1"},
		{input: " 10 "},
		{input: "0", wantErr: true},
		{input: "11", wantErr: true},
		{input: "three", wantErr: true},
		{input: 3, wantErr: true},
	}

	for _, tt := range tests {
		err := sampleCountValidator(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %v", tt.input)
		} else {
			assert.NoError(t, err, "input %v", tt.input)
		}
	}

	assert.ErrorIs(t, sampleCountValidator("11"), sampling.ErrInvalidSampleCount)
}

func TestURLValidator(t *testing.T) {
	assert.NoError(t, urlValidator("https://www.example.com/"))
	assert.Error(t, urlValidator("www.example.com"))
	assert.Error(t, urlValidator("ftp://example.com/"))
	assert.Error(t, urlValidator(42))
}
