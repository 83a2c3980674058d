package z80

import "fmt"

// Operands holds the operand payload of an instruction. Which fields are
// meaningful depends on the instruction kind.
type Operands struct {
	Reg   Value     // 8-bit register operand, destination for loads
	Src   Value     // source register of LD r,r'
	Pair  Pair      // register pair operand, destination for ADD rr,rr
	Pair2 Pair      // source pair of ADD rr,rr and SBC HL,rr
	Index Pair      // IX or IY of indexed addressing
	Bit   uint8     // bit number of BIT/RES/SET
	Disp  int16     // signed displacement of indexed addressing and relative jumps
	N     uint8     // 8-bit immediate
	NN    uint16    // 16-bit immediate or absolute address
	Cond  Condition // condition of conditional flow instructions
}

// Instruction is a decoded instruction at a fixed address.
type Instruction struct {
	Address uint16
	Length  int
	Kind    Kind
	Opcode  Opcode
	Bytes   []byte

	Operands

	// Successors are the statically known addresses execution may continue at.
	Successors []uint16
	// IsExit is set for instructions that may return from the routine.
	IsExit bool

	Uses       Values
	Overwrites Values

	// UsedResults is the subset of Overwrites that is read by a later
	// instruction before being overwritten. It is attached by the liveness
	// analysis.
	UsedResults Values

	callTarget    uint16
	returnAddress uint16
	jumpTarget    uint16
	isCall        bool
	isJump        bool
}

// Next returns the address following the instruction.
func (ins *Instruction) Next() uint16 {
	return ins.Address + uint16(ins.Length)
}

// CallTarget returns the called routine address for call instructions.
func (ins *Instruction) CallTarget() (uint16, bool) {
	return ins.callTarget, ins.isCall
}

// ReturnAddress returns the address execution continues at after a call.
func (ins *Instruction) ReturnAddress() (uint16, bool) {
	return ins.returnAddress, ins.isCall
}

// JumpTarget returns the destination of jump instructions.
func (ins *Instruction) JumpTarget() (uint16, bool) {
	return ins.jumpTarget, ins.isJump
}

// FallsThrough returns whether execution can continue at the next address,
// for calls once the called routine returned.
func (ins *Instruction) FallsThrough() bool {
	switch ins.Kind {
	case Jp, Jr, Ret:
		return false
	default:
		return true
	}
}

func (ins *Instruction) String() string {
	return fmt.Sprintf("0x%04x: %s", ins.Address, ins.Asm())
}
