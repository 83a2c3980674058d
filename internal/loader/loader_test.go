package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/detector"
	"github.com/retroenv/z80decomp/internal/options"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("load binary file", func(t *testing.T) {
		dir := t.TempDir()
		opts := options.Program{}
		opts.Input = writeFile(t, dir, "player.bin", []byte{0x3e, 0x05, 0xc9})
		opts.Base = 0x4000

		input, err := New(log.NewTestLogger(t)).Load(opts, detector.Binary)
		assert.NoError(t, err)
		assert.True(t, input.Project == nil)
		assert.Equal(t, byte(0x3e), input.Memory.Read(0x4000))
		assert.Equal(t, byte(0xc9), input.Memory.Read(0x4002))
		assert.Equal(t, 3, input.Memory.Loaded())
	})

	t.Run("load project with chained blobs", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "player.bin", []byte{0xc9, 0x00})
		writeFile(t, dir, "song.bin", []byte{0x11, 0x22})
		writeFile(t, dir, "table.bin", []byte{0x33})

		opts := options.Program{}
		opts.Input = writeFile(t, dir, "project.toml", []byte(`
roots = [0x4000]

[[blob]]
file = "player.bin"
base = 0x4000

[[blob]]
file = "song.bin"

[[blob]]
file = "table.bin"
base = 0x8000
`))

		input, err := New(log.NewTestLogger(t)).Load(opts, detector.Project)
		assert.NoError(t, err)
		assert.NotNil(t, input.Project)
		assert.Equal(t, []uint16{0x4000}, input.Project.Roots)
		assert.Equal(t, byte(0xc9), input.Memory.Read(0x4000))
		assert.Equal(t, byte(0x11), input.Memory.Read(0x4002))
		assert.Equal(t, byte(0x22), input.Memory.Read(0x4003))
		assert.Equal(t, byte(0x33), input.Memory.Read(0x8000))
	})

	t.Run("missing file", func(t *testing.T) {
		opts := options.Program{}
		opts.Input = filepath.Join(t.TempDir(), "missing.bin")

		_, err := New(log.NewTestLogger(t)).Load(opts, detector.Binary)
		assert.Error(t, err)
	})

	t.Run("missing blob of project", func(t *testing.T) {
		dir := t.TempDir()
		opts := options.Program{}
		opts.Input = writeFile(t, dir, "project.toml", []byte("[[blob]]\nfile = \"none.bin\"\nbase = 0\n"))

		_, err := New(log.NewTestLogger(t)).Load(opts, detector.Project)
		assert.Error(t, err)
	})

	t.Run("file larger than address space", func(t *testing.T) {
		dir := t.TempDir()
		opts := options.Program{}
		opts.Input = writeFile(t, dir, "big.bin", make([]byte, 0x10001))

		_, err := New(log.NewTestLogger(t)).Load(opts, detector.Binary)
		assert.Error(t, err)
	})
}
