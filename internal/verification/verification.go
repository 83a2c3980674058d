// Package verification verifies that the generated output is valid
// JavaScript that defines every emitted function.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/codegen"
	"github.com/retroenv/z80decomp/internal/writer"
)

// Options control the verification.
type Options struct {
	// Run calls the given functions after loading the output.
	Run []string
	// Timeout aborts running functions, zero disables the limit.
	Timeout time.Duration
	// Runtime is set if the output already contains the runtime declarations.
	Runtime bool
}

// Port is a value written to an output port by a verified function.
type Port struct {
	Port  uint16
	Value uint8
}

// Result contains the observable effects of the functions that were run.
type Result struct {
	Ports  []Port
	Memory []byte
}

// VerifyOutput loads the output into a JavaScript VM with the given memory
// image and checks that every function is defined.
func VerifyOutput(ctx context.Context, logger *log.Logger, output string, image []byte,
	functions []codegen.Function, opts Options) (*Result, error) {

	vm := goja.New()
	result := &Result{}

	if err := vm.Set("image", vm.NewArrayBuffer(image)); err != nil {
		return nil, fmt.Errorf("setting memory image: %w", err)
	}
	if err := vm.Set("out", func(port, value int) {
		result.Ports = append(result.Ports, Port{Port: uint16(port), Value: uint8(value)})
	}); err != nil {
		return nil, fmt.Errorf("setting port output: %w", err)
	}
	if _, err := vm.RunString("var mem = new Uint8Array(image);"); err != nil {
		return nil, fmt.Errorf("creating memory: %w", err)
	}

	if !opts.Runtime {
		if _, err := vm.RunString(writer.Runtime); err != nil {
			return nil, fmt.Errorf("loading runtime: %w", err)
		}
	}
	if _, err := vm.RunString(output); err != nil {
		return nil, fmt.Errorf("loading output: %w", err)
	}

	for _, fn := range functions {
		if _, ok := goja.AssertFunction(vm.Get(fn.Name)); !ok {
			return nil, fmt.Errorf("function %s is not defined", fn.Name)
		}
	}
	logger.Debug("Output loaded", log.Int("functions", len(functions)))

	for _, name := range opts.Run {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verification interrupted: %w", err)
		}
		if err := run(vm, name, opts.Timeout); err != nil {
			return nil, err
		}
	}

	memory, err := exportMemory(vm)
	if err != nil {
		return nil, err
	}
	result.Memory = memory
	return result, nil
}

func exportMemory(vm *goja.Runtime) ([]byte, error) {
	value, err := vm.RunString("Array.prototype.slice.call(mem)")
	if err != nil {
		return nil, fmt.Errorf("reading memory: %w", err)
	}

	var values []int
	if err := vm.ExportTo(value, &values); err != nil {
		return nil, fmt.Errorf("exporting memory: %w", err)
	}

	data := make([]byte, len(values))
	for i, v := range values {
		data[i] = byte(v)
	}
	return data, nil
}

func run(vm *goja.Runtime, name string, timeout time.Duration) error {
	fn, ok := goja.AssertFunction(vm.Get(name))
	if !ok {
		return fmt.Errorf("function %s is not defined", name)
	}

	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			vm.Interrupt("timeout")
		})
		defer timer.Stop()
	}

	if _, err := fn(goja.Undefined()); err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			vm.ClearInterrupt()
			return fmt.Errorf("running %s: exceeded %s", name, timeout)
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}
