package z80

// Pair is a 16-bit register pair operand.
type Pair uint8

// Register pairs.
const (
	BC Pair = iota
	DE
	HL
	SP
	AF
	IX
	IY
)

var pairNames = [...]string{
	BC: "BC",
	DE: "DE",
	HL: "HL",
	SP: "SP",
	AF: "AF",
	IX: "IX",
	IY: "IY",
}

var pairHalves = [...][2]Value{
	BC: {B, C},
	DE: {D, E},
	HL: {H, L},
	SP: {SPH, SPL},
	IX: {IXH, IXL},
	IY: {IYH, IYL},
}

func (p Pair) String() string {
	if int(p) >= len(pairNames) {
		return "?"
	}
	return pairNames[p]
}

// High returns the value holding the high byte of the pair.
// AF has no single high/low value pairing and returns A and CarryFlag.
func (p Pair) High() Value {
	if p == AF {
		return A
	}
	return pairHalves[p][0]
}

// Low returns the value holding the low byte of the pair.
func (p Pair) Low() Value {
	if p == AF {
		return CarryFlag
	}
	return pairHalves[p][1]
}

// Values returns all tracked values the pair consists of. For AF these are
// the accumulator and all tracked flags.
func (p Pair) Values() Values {
	if p == AF {
		return Flags.With(A)
	}
	return NewValues(p.High(), p.Low())
}

// Condition is a flag condition of a conditional jump, call or return.
type Condition uint8

// Conditions in encoding order.
const (
	CondNZ Condition = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
)

var conditionNames = [...]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

var conditionFlags = [...]Value{ZeroFlag, ZeroFlag, CarryFlag, CarryFlag, ParityFlag, ParityFlag, SignFlag, SignFlag}

func (c Condition) String() string {
	if int(c) >= len(conditionNames) {
		return "?"
	}
	return conditionNames[c]
}

// Flag returns the flag the condition tests.
func (c Condition) Flag() Value {
	return conditionFlags[c&7]
}

// Negated returns whether the condition holds when the flag is reset.
func (c Condition) Negated() bool {
	return c&1 == 0
}

// registers is the operand encoding order of 8-bit registers. Index 6
// encodes (HL) and is handled separately by the opcode tables.
var registers = [8]Value{B, C, D, E, H, L, 0xff, A}

const indirectHL = 6

// pairsSP and pairsAF are the two 16-bit operand encodings.
var (
	pairsSP = [4]Pair{BC, DE, HL, SP}
	pairsAF = [4]Pair{BC, DE, HL, AF}
)
