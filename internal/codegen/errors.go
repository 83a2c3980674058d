package codegen

import (
	"fmt"

	"github.com/retroenv/z80decomp/internal/arch/z80"
)

// UnsupportedPatternError is returned when no rule of the catalog covers an
// instruction with its set of live results.
type UnsupportedPatternError struct {
	Address uint16
	Kind    z80.Kind
	Asm     string
	Live    z80.Values
}

func (e *UnsupportedPatternError) Error() string {
	return fmt.Sprintf("no code generation rule for %s at 0x%04x with live results %s",
		e.Asm, e.Address, e.Live)
}
