// Package report renders the call graph and exports the analysis results
// of all decompiled routines.
package report

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"github.com/retroenv/z80decomp/internal/arch/z80"
	"github.com/retroenv/z80decomp/internal/disasm"
)

// Supported report formats.
const (
	FormatTOML = "toml"
	FormatCBOR = "cbor"
)

// Report contains the analysis results of all routines.
type Report struct {
	Roots    []string  `toml:"roots" cbor:"roots"`
	Routines []Routine `toml:"routine" cbor:"routines"`
}

// Routine contains the analysis results of one routine.
type Routine struct {
	Name         string   `toml:"name" cbor:"name"`
	Start        uint16   `toml:"start" cbor:"start"`
	Instructions int      `toml:"instructions" cbor:"instructions"`
	Exits        []uint16 `toml:"exits" cbor:"exits"`
	Calls        []string `toml:"calls" cbor:"calls"`
	Inputs       []string `toml:"inputs" cbor:"inputs"`
	Outputs      []string `toml:"outputs" cbor:"outputs"`
	Overwrites   []string `toml:"overwrites" cbor:"overwrites"`
}

// New creates the report of the given routines.
func New(roots []uint16, routines []*disasm.Routine) *Report {
	r := &Report{
		Roots:    make([]string, 0, len(roots)),
		Routines: make([]Routine, 0, len(routines)),
	}
	for _, root := range roots {
		r.Roots = append(r.Roots, disasm.RoutineName(root))
	}

	for _, routine := range routines {
		entry := Routine{
			Name:         routine.Name(),
			Start:        routine.Start,
			Instructions: len(routine.Instructions),
			Exits:        make([]uint16, 0, len(routine.ExitPoints)),
			Calls:        make([]string, 0, len(routine.Calls)),
			Inputs:       names(routine.Uses),
			Outputs:      names(routine.Results),
			Overwrites:   names(routine.Overwrites),
		}
		for _, exit := range routine.ExitPoints {
			entry.Exits = append(entry.Exits, exit.Address)
		}
		for _, call := range routine.Calls {
			entry.Calls = append(entry.Calls, disasm.RoutineName(call))
		}
		r.Routines = append(r.Routines, entry)
	}
	return r
}

// Encode writes the report in the given format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case "", FormatTOML:
		if err := toml.NewEncoder(w).Encode(r); err != nil {
			return fmt.Errorf("encoding toml report: %w", err)
		}

	case FormatCBOR:
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return fmt.Errorf("creating cbor encoder: %w", err)
		}
		data, err := em.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding cbor report: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing cbor report: %w", err)
		}

	default:
		return fmt.Errorf("unsupported report format '%s'", format)
	}
	return nil
}

func names(values z80.Values) []string {
	result := make([]string, 0, values.Len())
	for _, v := range values.Slice() {
		result = append(result, v.String())
	}
	return result
}
