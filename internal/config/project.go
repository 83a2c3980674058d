package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/z80decomp/internal/options"
)

// Project describes the inputs of a decompilation in a TOML file.
type Project struct {
	Output  string   `toml:"output"`
	Roots   []uint16 `toml:"roots"`
	Runtime *bool    `toml:"runtime"`
	Blobs   []Blob   `toml:"blob"`
	Report  Report   `toml:"report"`
}

// Blob is a binary file loaded into the address space. A blob without base
// is loaded directly after the previous one.
type Blob struct {
	File string  `toml:"file"`
	Base *uint16 `toml:"base"`
}

// Report configures the analysis report output.
type Report struct {
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// LoadProject reads and validates a project file. Relative paths are
// resolved against the directory of the project file.
func LoadProject(path string) (*Project, error) {
	var p Project
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("decoding project file '%s': %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown project keys: %s", strings.Join(keys, ", "))
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("validating project file '%s': %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, blob := range p.Blobs {
		if !filepath.IsAbs(blob.File) {
			p.Blobs[i].File = filepath.Join(dir, blob.File)
		}
	}
	if p.Output != "" && !filepath.IsAbs(p.Output) {
		p.Output = filepath.Join(dir, p.Output)
	}
	if p.Report.File != "" && !filepath.IsAbs(p.Report.File) {
		p.Report.File = filepath.Join(dir, p.Report.File)
	}
	return &p, nil
}

func (p *Project) validate() error {
	if len(p.Blobs) == 0 {
		return errors.New("no blob defined")
	}
	if p.Blobs[0].Base == nil {
		return errors.New("first blob has no base address")
	}
	for i, blob := range p.Blobs {
		if blob.File == "" {
			return fmt.Errorf("blob %d has no file", i)
		}
	}
	return nil
}

// Apply sets all options that were not given on the command line from the
// project. Without any roots the base address of the first blob is traced.
func (p *Project) Apply(opts *options.Program) {
	if opts.Output == "" {
		opts.Output = p.Output
	}
	if len(opts.Roots) == 0 {
		opts.Roots = p.Roots
	}
	if len(opts.Roots) == 0 {
		opts.Roots = []uint16{*p.Blobs[0].Base}
	}
	if p.Runtime != nil && !*p.Runtime {
		opts.NoRuntime = true
	}
	if opts.Report == "" {
		opts.Report = p.Report.File
	}
	if opts.ReportFormat == "" {
		opts.ReportFormat = p.Report.Format
	}
}
