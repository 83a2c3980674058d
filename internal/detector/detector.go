// Package detector handles input kind detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/options"
)

// Kind is the kind of an input file.
type Kind int

// Input kinds.
const (
	Binary  Kind = iota // raw binary loaded at the base address
	Project             // TOML project file listing blobs and roots
)

func (k Kind) String() string {
	if k == Project {
		return "project"
	}
	return "binary"
}

// Detector handles input kind detection from file extensions.
type Detector struct {
	logger *log.Logger
}

// New creates a new input detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines whether the input is a project file or a raw binary.
func (d *Detector) Detect(opts options.Program) Kind {
	kind := Binary
	if strings.EqualFold(filepath.Ext(opts.Input), ".toml") {
		kind = Project
	}

	d.logger.Debug("Detected input kind",
		log.Stringer("kind", kind),
		log.String("file", opts.Input))
	return kind
}
