package z80

import (
	"fmt"
	"strings"
)

// Asm returns the instruction in assembler notation. The mnemonic is taken
// from the CPU opcode information.
func (ins *Instruction) Asm() string {
	name := ins.Opcode.Name()
	if name == "" {
		name, _, _ = strings.Cut(ins.Kind.String(), "_")
	}

	operands := ins.operands()
	if operands == "" {
		return name
	}
	return name + " " + operands
}

//nolint:cyclop,funlen // one case per instruction kind
func (ins *Instruction) operands() string {
	switch ins.Kind {
	case Nop, Di, Ei, Scf, Ccf, Cpl, Rlca, Rrca, Ret, Ldir, Outd:
		return ""
	case ExDeHl:
		return "DE,HL"
	case ExAfAf:
		return "AF,AF'"

	case LdRR:
		return fmt.Sprintf("%s,%s", ins.Reg, ins.Src)
	case LdRN:
		return fmt.Sprintf("%s,0x%02x", ins.Reg, ins.N)
	case LdRIndHL:
		return fmt.Sprintf("%s,(HL)", ins.Reg)
	case LdIndHLR:
		return fmt.Sprintf("(HL),%s", ins.Reg)
	case LdIndHLN:
		return fmt.Sprintf("(HL),0x%02x", ins.N)
	case LdAIndRR:
		return fmt.Sprintf("A,(%s)", ins.Pair)
	case LdIndRRA:
		return fmt.Sprintf("(%s),A", ins.Pair)
	case LdAIndNN:
		return fmt.Sprintf("A,(0x%04x)", ins.NN)
	case LdIndNNA:
		return fmt.Sprintf("(0x%04x),A", ins.NN)
	case LdRRNN:
		return fmt.Sprintf("%s,0x%04x", ins.Pair, ins.NN)
	case LdRRIndNN:
		return fmt.Sprintf("%s,(0x%04x)", ins.Pair, ins.NN)
	case LdIndNNRR:
		return fmt.Sprintf("(0x%04x),%s", ins.NN, ins.Pair)
	case LdRIndIdx:
		return fmt.Sprintf("%s,%s", ins.Reg, ins.indexed())
	case LdIndIdxR:
		return fmt.Sprintf("%s,%s", ins.indexed(), ins.Reg)
	case LdIndIdxN:
		return fmt.Sprintf("%s,0x%02x", ins.indexed(), ins.N)

	case IncR, DecR, RlcR, SubR, AndR, XorR, OrR, CpR:
		return ins.Reg.String()
	case IncIndHL, DecIndHL, SubIndHL, AndIndHL, XorIndHL, OrIndHL, CpIndHL:
		return "(HL)"
	case IncIndIdx, DecIndIdx:
		return ins.indexed()
	case IncRR, DecRR, Push, Pop:
		return ins.Pair.String()
	case AddRRRR:
		return fmt.Sprintf("%s,%s", ins.Pair, ins.Pair2)
	case SbcHLRR:
		return fmt.Sprintf("HL,%s", ins.Pair2)

	case AddAR:
		return fmt.Sprintf("A,%s", ins.Reg)
	case AddAN:
		return fmt.Sprintf("A,0x%02x", ins.N)
	case AddAIndHL:
		return "A,(HL)"
	case SubN, AndN, XorN, OrN, CpN:
		return fmt.Sprintf("0x%02x", ins.N)

	case BitR, ResR, SetR:
		return fmt.Sprintf("%d,%s", ins.Bit, ins.Reg)
	case ResIndHL, SetIndHL:
		return fmt.Sprintf("%d,(HL)", ins.Bit)
	case BitIndIdx, ResIndIdx, SetIndIdx:
		return fmt.Sprintf("%d,%s", ins.Bit, ins.indexed())

	case Jp, Call:
		return fmt.Sprintf("0x%04x", ins.NN)
	case JpCond, CallCond:
		return fmt.Sprintf("%s,0x%04x", ins.Cond, ins.NN)
	case Jr, Djnz:
		return fmt.Sprintf("0x%04x", ins.jumpTarget)
	case JrCond:
		return fmt.Sprintf("%s,0x%04x", ins.Cond, ins.jumpTarget)
	case RetCond:
		return ins.Cond.String()

	case OutIndCR:
		return fmt.Sprintf("(C),%s", ins.Reg)

	default:
		return ""
	}
}

func (ins *Instruction) indexed() string {
	if ins.Disp < 0 {
		return fmt.Sprintf("(%s-0x%02x)", ins.Index, -ins.Disp)
	}
	return fmt.Sprintf("(%s+0x%02x)", ins.Index, ins.Disp)
}
