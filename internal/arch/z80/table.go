package z80

import cpu "github.com/retroenv/retrogolib/arch/cpu/z80"

// builder creates the instruction of a table entry, reading its operands.
type builder func(d *decoding) *Instruction

// entry of an opcode table, either a completed instruction variant or the
// table selected by the next byte.
type entry struct {
	build builder
	next  *table
}

// table is the supported subset of one CPU opcode table. Opcodes without
// an entry are rejected even if the CPU defines them.
type table struct {
	name    string
	opcodes func(opcode byte) Opcode
	// displaced tables have a displacement byte in front of the opcode byte
	displaced bool
	entries   [256]entry
}

func (t *table) set(opcode byte, b builder) {
	t.entries[opcode] = entry{build: b}
}

func (t *table) link(opcode byte, next *table) {
	t.entries[opcode] = entry{next: next}
}

var rootTable = newRootTable()

func fixed(kind Kind) builder {
	return func(*decoding) *Instruction {
		return &Instruction{Kind: kind}
	}
}

func regOp(kind Kind, r Value) builder {
	return func(*decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{Reg: r}}
	}
}

func pairOp(kind Kind, p Pair) builder {
	return func(*decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{Pair: p}}
	}
}

func immOp(kind Kind) builder {
	return func(d *decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{N: d.imm8()}}
	}
}

func addressOp(kind Kind) builder {
	return func(d *decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{NN: d.imm16()}}
	}
}

func pairAddressOp(kind Kind, p Pair) builder {
	return func(d *decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{Pair: p, NN: d.imm16()}}
	}
}

func relativeOp(kind Kind, cond Condition) builder {
	return func(d *decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{Disp: d.displacement(), Cond: cond}}
	}
}

func conditionOp(kind Kind, cond Condition, withAddress bool) builder {
	return func(d *decoding) *Instruction {
		ins := &Instruction{Kind: kind, Operands: Operands{Cond: cond}}
		if withAddress {
			ins.NN = d.imm16()
		}
		return ins
	}
}

func bitOp(kind Kind, bit int, r Value) builder {
	return func(*decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{Reg: r, Bit: uint8(bit)}}
	}
}

func newRootTable() *table {
	t := &table{name: "root", opcodes: opcodeTable(&cpu.Opcodes)}

	t.set(0x00, fixed(Nop))
	t.set(0x07, fixed(Rlca))
	t.set(0x08, fixed(ExAfAf))
	t.set(0x0f, fixed(Rrca))
	t.set(0x2f, fixed(Cpl))
	t.set(0x37, fixed(Scf))
	t.set(0x3f, fixed(Ccf))
	t.set(0xeb, fixed(ExDeHl))
	t.set(0xf3, fixed(Di))
	t.set(0xfb, fixed(Ei))

	for i, p := range pairsSP {
		op := byte(i << 4)
		t.set(op|0x01, pairAddressOp(LdRRNN, p))
		t.set(op|0x03, pairOp(IncRR, p))
		t.set(op|0x09, addPairs(HL, p))
		t.set(op|0x0b, pairOp(DecRR, p))
	}
	t.set(0x02, pairOp(LdIndRRA, BC))
	t.set(0x12, pairOp(LdIndRRA, DE))
	t.set(0x0a, pairOp(LdAIndRR, BC))
	t.set(0x1a, pairOp(LdAIndRR, DE))
	t.set(0x22, pairAddressOp(LdIndNNRR, HL))
	t.set(0x2a, pairAddressOp(LdRRIndNN, HL))
	t.set(0x32, addressOp(LdIndNNA))
	t.set(0x3a, addressOp(LdAIndNN))

	for i, r := range registers {
		op := byte(i << 3)
		if i == indirectHL {
			t.set(0x34, fixed(IncIndHL))
			t.set(0x35, fixed(DecIndHL))
			t.set(0x36, immOp(LdIndHLN))
			continue
		}
		t.set(op|0x04, regOp(IncR, r))
		t.set(op|0x05, regOp(DecR, r))
		t.set(op|0x06, func(d *decoding) *Instruction {
			return &Instruction{Kind: LdRN, Operands: Operands{Reg: r, N: d.imm8()}}
		})
	}

	t.set(0x10, relativeOp(Djnz, 0))
	t.set(0x18, relativeOp(Jr, 0))
	for _, cond := range []Condition{CondNZ, CondZ, CondNC, CondC} {
		t.set(0x20|byte(cond<<3), relativeOp(JrCond, cond))
	}

	addLoads(t)
	addArithmetic(t)

	for cond := CondNZ; cond <= CondM; cond++ {
		op := byte(cond << 3)
		t.set(0xc0|op, conditionOp(RetCond, cond, false))
		t.set(0xc2|op, conditionOp(JpCond, cond, true))
		t.set(0xc4|op, conditionOp(CallCond, cond, true))
	}
	t.set(0xc3, addressOp(Jp))
	t.set(0xc9, fixed(Ret))
	t.set(0xcd, addressOp(Call))

	for i, p := range pairsAF {
		op := byte(i << 4)
		t.set(0xc1|op, pairOp(Pop, p))
		t.set(0xc5|op, pairOp(Push, p))
	}

	t.link(cpu.PrefixCB, newBitTable())
	t.link(cpu.PrefixED, newExtendedTable())
	t.link(cpu.PrefixDD, newIndexTable("DD", IX, &cpu.DDOpcodes))
	t.link(cpu.PrefixFD, newIndexTable("FD", IY, &cpu.FDOpcodes))
	return t
}

func addPairs(dst, src Pair) builder {
	return func(*decoding) *Instruction {
		return &Instruction{Kind: AddRRRR, Operands: Operands{Pair: dst, Pair2: src}}
	}
}

// addLoads adds the 8-bit register loads of the 0x40-0x7f block. 0x76 is
// HALT and stays undefined.
func addLoads(t *table) {
	for i, dst := range registers {
		for j, src := range registers {
			op := 0x40 | byte(i<<3) | byte(j)
			switch {
			case i == indirectHL && j == indirectHL:
				continue
			case i == indirectHL:
				t.set(op, regOp(LdIndHLR, src))
			case j == indirectHL:
				t.set(op, regOp(LdRIndHL, dst))
			default:
				t.set(op, func(*decoding) *Instruction {
					return &Instruction{Kind: LdRR, Operands: Operands{Reg: dst, Src: src}}
				})
			}
		}
	}
}

// addArithmetic adds the accumulator operations of the 0x80-0xbf block and
// their immediate forms. ADC and SBC stay undefined.
func addArithmetic(t *table) {
	ops := []struct {
		base               byte
		reg, imm, indirect Kind
	}{
		{0x80, AddAR, AddAN, AddAIndHL},
		{0x90, SubR, SubN, SubIndHL},
		{0xa0, AndR, AndN, AndIndHL},
		{0xa8, XorR, XorN, XorIndHL},
		{0xb0, OrR, OrN, OrIndHL},
		{0xb8, CpR, CpN, CpIndHL},
	}
	for _, op := range ops {
		for j, r := range registers {
			if j == indirectHL {
				t.set(op.base|byte(j), fixed(op.indirect))
				continue
			}
			t.set(op.base|byte(j), regOp(op.reg, r))
		}
		t.set(op.base+0x46, immOp(op.imm))
	}
}

func newBitTable() *table {
	t := &table{name: "CB", opcodes: opcodeTable(&cpu.CBOpcodes)}

	for j, r := range registers {
		if j == indirectHL {
			continue
		}
		t.set(byte(j), regOp(RlcR, r))
	}

	for bit := range 8 {
		for j, r := range registers {
			op := byte(bit<<3 | j)
			if j == indirectHL {
				t.set(0x80|op, bitOp(ResIndHL, bit, 0))
				t.set(0xc0|op, bitOp(SetIndHL, bit, 0))
				continue
			}
			t.set(0x40|op, bitOp(BitR, bit, r))
			t.set(0x80|op, bitOp(ResR, bit, r))
			t.set(0xc0|op, bitOp(SetR, bit, r))
		}
	}
	return t
}

func newExtendedTable() *table {
	t := &table{name: "ED", opcodes: opcodeTable(&cpu.EDOpcodes)}

	for j, r := range registers {
		if j == indirectHL {
			continue
		}
		t.set(0x41|byte(j<<3), regOp(OutIndCR, r))
	}

	for i, p := range pairsSP {
		op := byte(i << 4)
		t.set(0x42|op, func(*decoding) *Instruction {
			return &Instruction{Kind: SbcHLRR, Operands: Operands{Pair: HL, Pair2: p}}
		})
		t.set(0x43|op, pairAddressOp(LdIndNNRR, p))
		t.set(0x4b|op, pairAddressOp(LdRRIndNN, p))
	}

	t.set(0xab, fixed(Outd))
	t.set(0xb0, fixed(Ldir))
	return t
}

// newIndexTable returns the table selected by the DD or FD prefix, the
// instructions address the given index register.
func newIndexTable(name string, index Pair, opcodes *[256]cpu.Opcode) *table {
	t := &table{name: name, opcodes: opcodeTable(opcodes)}

	for i, p := range []Pair{BC, DE, index, SP} {
		t.set(0x09|byte(i<<4), addPairs(index, p))
	}
	t.set(0x21, pairAddressOp(LdRRNN, index))
	t.set(0x22, pairAddressOp(LdIndNNRR, index))
	t.set(0x23, pairOp(IncRR, index))
	t.set(0x2a, pairAddressOp(LdRRIndNN, index))
	t.set(0x2b, pairOp(DecRR, index))

	t.set(0x34, indexedOp(IncIndIdx, index, 0))
	t.set(0x35, indexedOp(DecIndIdx, index, 0))
	t.set(0x36, func(d *decoding) *Instruction {
		disp := d.displacement()
		n := d.imm8()
		return &Instruction{Kind: LdIndIdxN, Operands: Operands{Index: index, Disp: disp, N: n}}
	})

	for j, r := range registers {
		if j == indirectHL {
			continue
		}
		t.set(0x46|byte(j<<3), indexedOp(LdRIndIdx, index, r))
		t.set(0x70|byte(j), indexedOp(LdIndIdxR, index, r))
	}

	t.set(0xe1, pairOp(Pop, index))
	t.set(0xe5, pairOp(Push, index))

	t.link(cpu.PrefixCB, newIndexBitTable(name+" CB", index))
	return t
}

func indexedOp(kind Kind, index Pair, r Value) builder {
	return func(d *decoding) *Instruction {
		return &Instruction{Kind: kind, Operands: Operands{Index: index, Reg: r, Disp: d.displacement()}}
	}
}

// newIndexBitTable returns the bit operation table of the index prefixes.
// Its opcode byte follows the displacement byte.
func newIndexBitTable(name string, index Pair) *table {
	t := &table{name: name, opcodes: indexBitOpcodes(index), displaced: true}

	for bit := range 8 {
		op := byte(bit << 3)
		for _, v := range []struct {
			opcode byte
			kind   Kind
		}{
			{0x46, BitIndIdx},
			{0x86, ResIndIdx},
			{0xc6, SetIndIdx},
		} {
			kind := v.kind
			b := uint8(bit)
			t.set(v.opcode|op, func(d *decoding) *Instruction {
				return &Instruction{Kind: kind, Operands: Operands{Index: index, Bit: b, Disp: d.disp}}
			})
		}
	}
	return t
}
