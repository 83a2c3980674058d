package z80

var (
	regsHL     = HL.Values()
	flagsZPS   = NewValues(ZeroFlag, ParityFlag, SignFlag)
	aluResults = Flags.With(A)
	blockRegs  = NewValues(B, C, D, E, H, L)
)

// effects returns the values read and the values written by the instruction.
// Memory and I/O ports are not tracked.
func effects(ins *Instruction) (uses, overwrites Values) {
	switch ins.Kind {
	case Nop, Di, Ei, Jp, Jr, Call, Ret:
		return 0, 0

	case Scf:
		return 0, NewValues(CarryFlag)
	case Ccf:
		return NewValues(CarryFlag), NewValues(CarryFlag)
	case Cpl:
		return NewValues(A), NewValues(A)
	case ExDeHl:
		v := NewValues(D, E, H, L)
		return v, v
	case ExAfAf:
		v := Flags.With(A, AShadow)
		return v, v

	case LdRR:
		return NewValues(ins.Src), NewValues(ins.Reg)
	case LdRN:
		return 0, NewValues(ins.Reg)
	case LdRIndHL:
		return regsHL, NewValues(ins.Reg)
	case LdIndHLR:
		return regsHL.With(ins.Reg), 0
	case LdIndHLN:
		return regsHL, 0
	case LdAIndRR:
		return ins.Pair.Values(), NewValues(A)
	case LdIndRRA:
		return ins.Pair.Values().With(A), 0
	case LdAIndNN:
		return 0, NewValues(A)
	case LdIndNNA:
		return NewValues(A), 0
	case LdRRNN, LdRRIndNN:
		return 0, ins.Pair.Values()
	case LdIndNNRR:
		return ins.Pair.Values(), 0
	case LdRIndIdx:
		return ins.Index.Values(), NewValues(ins.Reg)
	case LdIndIdxR:
		return ins.Index.Values().With(ins.Reg), 0
	case LdIndIdxN:
		return ins.Index.Values(), 0

	case IncR, DecR:
		return NewValues(ins.Reg), flagsZPS.With(ins.Reg)
	case IncIndHL, DecIndHL:
		return regsHL, flagsZPS
	case IncIndIdx, DecIndIdx:
		return ins.Index.Values(), flagsZPS
	case IncRR, DecRR:
		return ins.Pair.Values(), ins.Pair.Values()
	case AddRRRR:
		return ins.Pair.Values().Union(ins.Pair2.Values()), ins.Pair.Values().With(CarryFlag)
	case SbcHLRR:
		return regsHL.Union(ins.Pair2.Values()).With(CarryFlag), regsHL.Union(Flags)

	case AddAR, SubR, AndR, XorR, OrR:
		return NewValues(A, ins.Reg), aluResults
	case AddAN, SubN, AndN, XorN, OrN:
		return NewValues(A), aluResults
	case AddAIndHL, SubIndHL, AndIndHL, XorIndHL, OrIndHL:
		return regsHL.With(A), aluResults
	case CpR:
		return NewValues(A, ins.Reg), Flags
	case CpN:
		return NewValues(A), Flags
	case CpIndHL:
		return regsHL.With(A), Flags

	case Rlca, Rrca:
		return NewValues(A), NewValues(A, CarryFlag)
	case RlcR:
		return NewValues(ins.Reg), Flags.With(ins.Reg)
	case BitR:
		return NewValues(ins.Reg), flagsZPS
	case BitIndIdx:
		return ins.Index.Values(), flagsZPS
	case ResR, SetR:
		return NewValues(ins.Reg), NewValues(ins.Reg)
	case ResIndHL, SetIndHL:
		return regsHL, 0
	case ResIndIdx, SetIndIdx:
		return ins.Index.Values(), 0

	case JpCond, JrCond, CallCond, RetCond:
		return NewValues(ins.Cond.Flag()), 0
	case Djnz:
		return NewValues(B), NewValues(B)

	case Push:
		return ins.Pair.Values(), 0
	case Pop:
		return 0, ins.Pair.Values()

	case Ldir:
		return blockRegs, blockRegs.With(ParityFlag)
	case Outd:
		return NewValues(B, C, H, L), flagsZPS.With(B, H, L)
	case OutIndCR:
		return NewValues(B, C, ins.Reg), 0

	default:
		return 0, 0
	}
}
