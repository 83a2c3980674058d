package disasm

import (
	"fmt"

	"github.com/retroenv/z80decomp/internal/arch/z80"
)

const routineNaming = "r%04x"

// State is the tracing state of a routine.
type State int

// Routine states, a routine moves from Tracing to Traced exactly once.
const (
	Tracing State = iota + 1
	Traced
)

func (s State) String() string {
	switch s {
	case Tracing:
		return "tracing"
	case Traced:
		return "traced"
	default:
		return "unknown"
	}
}

// Routine is a set of instructions reachable from a call target without
// following calls.
type Routine struct {
	Start uint16
	State State

	Instructions []*z80.Instruction // sorted by address once traced
	ExitPoints   []*z80.Instruction // instructions that may return, sorted by address
	Calls        []uint16           // call targets in discovery order, with duplicates

	// Facts attached by the liveness analysis.
	Uses       z80.Values // values read before being written since routine entry
	Overwrites z80.Values // values written by any member instruction
	Results    z80.Values // written values that callers read after return
}

// RoutineName returns the function name of the routine starting at the
// given address.
func RoutineName(address uint16) string {
	return fmt.Sprintf(routineNaming, address)
}

// Name returns the function name of the routine.
func (r *Routine) Name() string {
	return RoutineName(r.Start)
}

// UnsupportedRecursionError is returned when a routine calls a routine that
// is still being traced.
type UnsupportedRecursionError struct {
	Caller uint16 // address of the call instruction
	Target uint16 // start of the routine being traced
}

func (e *UnsupportedRecursionError) Error() string {
	return fmt.Sprintf("unsupported recursive call at 0x%04x to routine 0x%04x", e.Caller, e.Target)
}
