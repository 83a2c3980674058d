// Package writer implements the JavaScript output file writing.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/z80decomp/internal/codegen"
)

// Writer writes generated functions together with their runtime.
type Writer struct {
	functions []codegen.Function
	options   Options
	writer    io.Writer
}

// Options of the writer.
type Options struct {
	Source  string // name of the input shown in the header, optional
	Runtime bool   // prepend the register and flag declarations
	Listing bool   // prepend the disassembly of a routine as comment
}

// New creates a new writer.
func New(functions []codegen.Function, writer io.Writer, options Options) *Writer {
	return &Writer{
		functions: functions,
		options:   options,
		writer:    writer,
	}
}

// Write writes the header, the runtime if enabled and all functions.
func (w Writer) Write() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	if w.options.Runtime {
		if _, err := io.WriteString(w.writer, Runtime); err != nil {
			return fmt.Errorf("writing runtime: %w", err)
		}
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	for i, fn := range w.functions {
		if i > 0 {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		if err := w.writeFunction(fn); err != nil {
			return fmt.Errorf("writing function %s: %w", fn.Name, err)
		}
	}
	return nil
}

func (w Writer) writeHeader() error {
	if _, err := fmt.Fprintln(w.writer, "// Generated by z80decomp."); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if w.options.Source != "" {
		if _, err := fmt.Fprintf(w.writer, "// Source: %s\n", w.options.Source); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	names := make([]string, 0, len(w.functions))
	for _, fn := range w.functions {
		names = append(names, fn.Name)
	}
	if _, err := fmt.Fprintf(w.writer, "// Functions: %s\n\n", strings.Join(names, ", ")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

func (w Writer) writeFunction(fn codegen.Function) error {
	if w.options.Listing && fn.Routine != nil {
		for _, ins := range fn.Routine.Instructions {
			if _, err := fmt.Fprintf(w.writer, "// %-24s ; % x\n", ins.String(), ins.Bytes); err != nil {
				return fmt.Errorf("writing listing: %w", err)
			}
		}
	}

	if _, err := io.WriteString(w.writer, fn.Code); err != nil {
		return fmt.Errorf("writing code: %w", err)
	}
	return nil
}
