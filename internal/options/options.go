// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string // project file or raw binary
	Output string // output .js file, printed on console if empty
	Report string // analysis report file
}

// Flags contains behavior options.
type Flags struct {
	Base         uint16   // load address of a raw binary
	Roots        []uint16 // routines to decompile, defaults to the base
	ReportFormat string   // toml or cbor
	CallTree     bool
	Verify       bool
	NoRuntime    bool
	Listing      bool
	Debug        bool
	Quiet        bool
}

// Program options of the decompiler.
type Program struct {
	Parameters
	Flags
}

// Generator defines options to control the generated output.
type Generator struct {
	Runtime bool // prepend the register and flag declarations
	Listing bool // prepend the disassembly of every routine as comment
}

// NewGenerator returns the generator options derived from the program options.
func NewGenerator(opts Program) Generator {
	return Generator{
		Runtime: !opts.NoRuntime,
		Listing: opts.Listing,
	}
}
