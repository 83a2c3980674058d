package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/options"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name      string
		inputFile string
		wantKind  Kind
	}{
		{
			name:      "project file",
			inputFile: "player.toml",
			wantKind:  Project,
		},
		{
			name:      "upper case extension",
			inputFile: "PLAYER.TOML",
			wantKind:  Project,
		},
		{
			name:      "raw binary",
			inputFile: "player.bin",
			wantKind:  Binary,
		},
		{
			name:      "no extension",
			inputFile: "player",
			wantKind:  Binary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{}
			opts.Input = tt.inputFile
			assert.Equal(t, tt.wantKind, d.Detect(opts))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "project", Project.String())
	assert.Equal(t, "binary", Binary.String())
}
