// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/z80decomp/internal/options"
	"github.com/retroenv/z80decomp/internal/report"
	"github.com/spf13/cobra"
)

// ErrHelp is returned when the help was requested and printed.
var ErrHelp = errors.New("help requested")

// ParseFlags parses command line arguments without the program name and
// returns the program options.
func ParseFlags(args []string, output io.Writer) (options.Program, error) {
	var opts options.Program
	var flags rawFlags
	var ran bool

	cmd := newCommand(&opts, &flags, func(args []string) {
		opts.Input = args[0]
		ran = true
	})
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		return opts, &UsageError{cmd: cmd, msg: err.Error()}
	}
	if !ran {
		return opts, ErrHelp
	}

	if err := flags.apply(&opts); err != nil {
		return opts, &UsageError{cmd: cmd, msg: err.Error()}
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	cmd *cobra.Command
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the command usage.
func (e *UsageError) ShowUsage() {
	if e.cmd != nil {
		_ = e.cmd.Usage()
	}
}

// rawFlags contains flag values that are converted after parsing.
type rawFlags struct {
	base  string
	roots []string
}

func (f rawFlags) apply(opts *options.Program) error {
	base, err := parseAddress(f.base)
	if err != nil {
		return fmt.Errorf("invalid base address: %w", err)
	}
	opts.Base = base

	for _, s := range f.roots {
		root, err := parseAddress(s)
		if err != nil {
			return fmt.Errorf("invalid root address: %w", err)
		}
		opts.Roots = append(opts.Roots, root)
	}

	switch opts.ReportFormat {
	case "", report.FormatTOML, report.FormatCBOR:
	default:
		return fmt.Errorf("unsupported report format '%s', valid options: %s, %s",
			opts.ReportFormat, report.FormatTOML, report.FormatCBOR)
	}
	return nil
}

// parseAddress parses a hexadecimal address with optional 0x or $ prefix.
func parseAddress(s string) (uint16, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "$")
	value, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing address '%s': %w", s, err)
	}
	return uint16(value), nil
}

func newCommand(opts *options.Program, flags *rawFlags, run func(args []string)) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "z80decomp [options] <project.toml|binary>",
		Short:         "Z80 machine code to JavaScript decompiler",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(_ *cobra.Command, args []string) {
			run(args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "name of the output .js file, printed on console if no name given")
	f.StringVarP(&flags.base, "base", "b", "0x0000", "load address of a raw binary input")
	f.StringSliceVarP(&flags.roots, "root", "r", nil, "address of a routine to decompile, can be repeated (default: base)")
	f.BoolVar(&opts.CallTree, "calltree", false, "print the call tree of the decompiled routines")
	f.StringVar(&opts.Report, "report", "", "write the routine analysis report to this file")
	f.StringVar(&opts.ReportFormat, "report-format", "", "analysis report format (toml/cbor)")
	f.BoolVar(&opts.Verify, "verify", false, "verify the generated output by loading it in a JavaScript VM")
	f.BoolVar(&opts.NoRuntime, "no-runtime", false, "do not output the register and flag declarations")
	f.BoolVar(&opts.Listing, "listing", false, "output the disassembly of every routine as comment")
	f.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")
	return cmd
}
