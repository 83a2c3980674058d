package z80

import (
	"strings"

	cpu "github.com/retroenv/retrogolib/arch/cpu/z80"
)

// Opcode is the CPU opcode information of a decoded encoding.
type Opcode struct {
	op cpu.Opcode
}

// Known returns whether the CPU defines an instruction for the encoding.
func (o Opcode) Known() bool {
	return o.op.Instruction != nil
}

// Name returns the upper case mnemonic of the instruction.
func (o Opcode) Name() string {
	if o.op.Instruction == nil {
		return ""
	}
	return strings.ToUpper(o.op.Instruction.Name)
}

// Size returns the encoded size of the instruction in bytes.
func (o Opcode) Size() int {
	return int(o.op.Size)
}

// opcodeTable returns the lookup of a 256 entry CPU opcode table.
func opcodeTable(opcodes *[256]cpu.Opcode) func(opcode byte) Opcode {
	return func(opcode byte) Opcode {
		return Opcode{op: opcodes[opcode]}
	}
}

// indexBitOpcodes returns the lookup of the DD CB or FD CB encodings. The
// CPU has no table for them, the instruction is selected by the opcode range.
// Rotations and shifts share their mnemonics with the CB table.
func indexBitOpcodes(index Pair) func(opcode byte) Opcode {
	bit, res, set := cpu.DdcbBit, cpu.DdcbRes, cpu.DdcbSet
	if index == IY {
		bit, res, set = cpu.FdcbBit, cpu.FdcbRes, cpu.FdcbSet
	}

	return func(opcode byte) Opcode {
		var ins *cpu.Instruction
		switch {
		case opcode <= 0x3f:
			ins = cpu.CBOpcodes[opcode].Instruction
		case opcode <= 0x7f:
			ins = bit
		case opcode <= 0xbf:
			ins = res
		default:
			ins = set
		}
		return Opcode{op: cpu.Opcode{
			Instruction: ins,
			Addressing:  cpu.ImpliedAddressing,
			Size:        cpu.MaxOpcodeSize,
		}}
	}
}
