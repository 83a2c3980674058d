// Package loader handles loading input files into the address space.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/config"
	"github.com/retroenv/z80decomp/internal/detector"
	"github.com/retroenv/z80decomp/internal/memory"
	"github.com/retroenv/z80decomp/internal/options"
)

// Input is the loaded address space together with the project it was
// described by, if any.
type Input struct {
	Memory  *memory.Space
	Project *config.Project
}

// Loader handles loading binary files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a raw binary to the base address, or all blobs of a project
// file to their configured addresses.
func (l *Loader) Load(opts options.Program, kind detector.Kind) (*Input, error) {
	mem := memory.New()

	if kind == detector.Binary {
		if _, err := l.loadBlob(mem, opts.Input, opts.Base); err != nil {
			return nil, err
		}
		return &Input{Memory: mem}, nil
	}

	project, err := config.LoadProject(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	var next uint16
	for _, blob := range project.Blobs {
		base := next
		if blob.Base != nil {
			base = *blob.Base
		}
		next, err = l.loadBlob(mem, blob.File, base)
		if err != nil {
			return nil, err
		}
	}

	return &Input{
		Memory:  mem,
		Project: project,
	}, nil
}

// loadBlob loads a file to the base address and returns the address
// following it.
func (l *Loader) loadBlob(mem *memory.Space, path string, base uint16) (uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading file %s: %w", path, err)
	}
	if len(data) > memory.Size {
		return 0, fmt.Errorf("file %s of %d bytes exceeds the address space", path, len(data))
	}

	next := mem.Load(base, data)
	l.logger.Debug("Loaded blob",
		log.String("file", path),
		log.Hex("base", base),
		log.Int("size", len(data)))
	return next, nil
}
