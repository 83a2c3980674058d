package codegen

import (
	"fmt"

	"github.com/retroenv/z80decomp/internal/arch/z80"
	"github.com/retroenv/z80decomp/internal/disasm"
)

// DefaultCatalog returns the catalog covering the decoded instruction set.
// The parity flag results of SBC HL,rr and OUTD have no rules.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	addMisc(c)
	addLoads(c)
	addIncDec(c)
	addArithmetic(c)
	addBitOps(c)
	addFlow(c)
	addStack(c)
	addBlock(c)
	return c
}

func addMisc(c *Catalog) {
	c.Register(z80.Nop, plain(text("/* NOP */"))...)
	c.Register(z80.Di, plain(text("/* DI */"))...)
	c.Register(z80.Ei, plain(text("/* EI */"))...)
	c.Register(z80.Scf, plain(text("cFlag = true;"))...)
	c.Register(z80.Ccf, plain(text("cFlag = !cFlag;"))...)
	c.Register(z80.Cpl, plain(text("r[A] ^= 0xff;"))...)
	c.Register(z80.ExDeHl, plain(text("tmp = rp[DE]; rp[DE] = rp[HL]; rp[HL] = tmp;"))...)
	c.Register(z80.ExAfAf, plain(text(
		"tmp = r[A]; r[A] = aShadow; aShadow = tmp; tmp = flags(); setFlags(fShadow); fShadow = tmp;"))...)
}

func addLoads(c *Catalog) {
	c.Register(z80.LdRR, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = %s;", reg(ins.Reg), reg(ins.Src))
	})...)
	c.Register(z80.LdRN, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = %s;", reg(ins.Reg), imm8(ins.N))
	})...)
	c.Register(z80.LdRIndHL, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = mem[rp[HL]];", reg(ins.Reg))
	})...)
	c.Register(z80.LdIndHLR, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("mem[rp[HL]] = %s;", reg(ins.Reg))
	})...)
	c.Register(z80.LdIndHLN, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("mem[rp[HL]] = %s;", imm8(ins.N))
	})...)
	c.Register(z80.LdAIndRR, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("r[A] = mem[%s];", pair(ins.Pair))
	})...)
	c.Register(z80.LdIndRRA, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("mem[%s] = r[A];", pair(ins.Pair))
	})...)
	c.Register(z80.LdAIndNN, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("r[A] = mem[%s];", imm16(ins.NN))
	})...)
	c.Register(z80.LdIndNNA, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("mem[%s] = r[A];", imm16(ins.NN))
	})...)
	c.Register(z80.LdRRNN, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = %s;", pair(ins.Pair), imm16(ins.NN))
	})...)
	c.Register(z80.LdRRIndNN, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = mem[%s]; %s = mem[%s];",
			reg(ins.Pair.Low()), imm16(ins.NN), reg(ins.Pair.High()), imm16(ins.NN+1))
	})...)
	c.Register(z80.LdIndNNRR, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("mem[%s] = %s; mem[%s] = %s;",
			imm16(ins.NN), reg(ins.Pair.Low()), imm16(ins.NN+1), reg(ins.Pair.High()))
	})...)
	c.Register(z80.LdRIndIdx, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = %s;", reg(ins.Reg), indexedMem(ins))
	})...)
	c.Register(z80.LdIndIdxR, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = %s;", indexedMem(ins), reg(ins.Reg))
	})...)
	c.Register(z80.LdIndIdxN, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("%s = %s;", indexedMem(ins), imm8(ins.N))
	})...)
}

// stepFlags returns the flag updates of an 8-bit increment or decrement.
// The overflow case is the value the operation wraps into the sign bit.
func stepFlags(live z80.Values, result string, overflow uint8) string {
	return statements(
		zeroSign(live, result),
		when(live, z80.ParityFlag, "pvFlag = (%s === %s);", result, imm8(overflow)),
	)
}

func addIncDec(c *Catalog) {
	step := func(operator string, overflow uint8) func(*z80.Instruction, z80.Values) string {
		return func(ins *z80.Instruction, live z80.Values) string {
			switch ins.Kind {
			case z80.IncR, z80.DecR:
				target := reg(ins.Reg)
				return statements(target+operator+";", stepFlags(live, target, overflow))
			}

			address := "rp[HL]"
			if ins.Kind == z80.IncIndIdx || ins.Kind == z80.DecIndIdx {
				address = indexedAddress(ins)
			}
			if live.Intersect(z80.Flags).IsEmpty() {
				return fmt.Sprintf("mem[%s]%s;", address, operator)
			}
			return statements(
				fmt.Sprintf("tmp = %s; mem[tmp]%s;", address, operator),
				stepFlags(live, "mem[tmp]", overflow),
			)
		}
	}

	increment := subsetRules(overwrites, step("++", 0x80))
	decrement := subsetRules(overwrites, step("--", 0x7f))
	c.Register(z80.IncR, increment...)
	c.Register(z80.IncIndHL, increment...)
	c.Register(z80.IncIndIdx, increment...)
	c.Register(z80.DecR, decrement...)
	c.Register(z80.DecIndHL, decrement...)
	c.Register(z80.DecIndIdx, decrement...)

	c.Register(z80.IncRR, plain(func(ins *z80.Instruction) string {
		return pair(ins.Pair) + "++;"
	})...)
	c.Register(z80.DecRR, plain(func(ins *z80.Instruction) string {
		return pair(ins.Pair) + "--;"
	})...)
}

// aluOperand returns the expression of the second operand of an 8-bit
// arithmetic or logic instruction.
func aluOperand(ins *z80.Instruction) string {
	switch ins.Kind {
	case z80.AddAN, z80.SubN, z80.AndN, z80.XorN, z80.OrN, z80.CpN:
		return imm8(ins.N)
	case z80.AddAIndHL, z80.SubIndHL, z80.AndIndHL, z80.XorIndHL, z80.OrIndHL, z80.CpIndHL:
		return "mem[rp[HL]]"
	default:
		return reg(ins.Reg)
	}
}

func addArithmetic(c *Catalog) {
	add := subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		operand := aluOperand(ins)
		if !live.Has(z80.CarryFlag) && !live.Has(z80.ParityFlag) {
			return statements(fmt.Sprintf("r[A] += %s;", operand), zeroSign(live, "r[A]"))
		}
		return statements(
			fmt.Sprintf("acc = r[A]; val = %s; tmp = acc + val; r[A] = tmp;", operand),
			when(live, z80.CarryFlag, "cFlag = (tmp > 0xff);"),
			when(live, z80.ParityFlag, "pvFlag = !!(~(acc ^ val) & (acc ^ tmp) & 0x80);"),
			zeroSign(live, "r[A]"),
		)
	})
	c.Register(z80.AddAR, add...)
	c.Register(z80.AddAN, add...)
	c.Register(z80.AddAIndHL, add...)

	sub := subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		operand := aluOperand(ins)
		if !live.Has(z80.CarryFlag) && !live.Has(z80.ParityFlag) {
			return statements(fmt.Sprintf("r[A] -= %s;", operand), zeroSign(live, "r[A]"))
		}
		return statements(
			fmt.Sprintf("acc = r[A]; val = %s; tmp = acc - val; r[A] = tmp;", operand),
			when(live, z80.CarryFlag, "cFlag = (tmp < 0);"),
			when(live, z80.ParityFlag, "pvFlag = !!((acc ^ val) & (acc ^ tmp) & 0x80);"),
			zeroSign(live, "r[A]"),
		)
	})
	c.Register(z80.SubR, sub...)
	c.Register(z80.SubN, sub...)
	c.Register(z80.SubIndHL, sub...)

	logic := func(operator string) []Rule {
		return subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
			return statements(
				fmt.Sprintf("r[A] %s= %s;", operator, aluOperand(ins)),
				when(live, z80.CarryFlag, "cFlag = false;"),
				when(live, z80.ParityFlag, "pvFlag = parity(r[A]);"),
				zeroSign(live, "r[A]"),
			)
		})
	}
	and, xor, or := logic("&"), logic("^"), logic("|")
	c.Register(z80.AndR, and...)
	c.Register(z80.AndN, and...)
	c.Register(z80.AndIndHL, and...)
	c.Register(z80.XorR, xor...)
	c.Register(z80.XorN, xor...)
	c.Register(z80.XorIndHL, xor...)
	c.Register(z80.OrR, or...)
	c.Register(z80.OrN, or...)
	c.Register(z80.OrIndHL, or...)

	compare := subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		operand := aluOperand(ins)
		if live.IsEmpty() {
			return ""
		}
		return statements(
			fmt.Sprintf("val = %s; tmp = r[A] - val;", operand),
			when(live, z80.CarryFlag, "cFlag = (tmp < 0);"),
			when(live, z80.ZeroFlag, "zFlag = (tmp === 0);"),
			when(live, z80.ParityFlag, "pvFlag = !!((r[A] ^ val) & (r[A] ^ tmp) & 0x80);"),
			when(live, z80.SignFlag, "sFlag = !!(tmp & 0x80);"),
		)
	})
	c.Register(z80.CpR, compare...)
	c.Register(z80.CpN, compare...)
	c.Register(z80.CpIndHL, compare...)

	c.Register(z80.AddRRRR, subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		if !live.Has(z80.CarryFlag) {
			return fmt.Sprintf("%s += %s;", pair(ins.Pair), pair(ins.Pair2))
		}
		return fmt.Sprintf("tmp = %s + %s; %s = tmp; cFlag = (tmp > 0xffff);",
			pair(ins.Pair), pair(ins.Pair2), pair(ins.Pair))
	})...)

	c.Register(z80.SbcHLRR, subsetRules(overwritesExcept(z80.ParityFlag),
		func(ins *z80.Instruction, live z80.Values) string {
			return statements(
				fmt.Sprintf("tmp = rp[HL] - %s - cFlag; rp[HL] = tmp;", pair(ins.Pair2)),
				when(live, z80.CarryFlag, "cFlag = (tmp < 0);"),
				when(live, z80.ZeroFlag, "zFlag = (rp[HL] === 0x0000);"),
				when(live, z80.SignFlag, "sFlag = !!(rp[HL] & 0x8000);"),
			)
		})...)
}

func addBitOps(c *Catalog) {
	c.Register(z80.Rlca, subsetRules(overwrites, func(_ *z80.Instruction, live z80.Values) string {
		return statements(
			when(live, z80.CarryFlag, "cFlag = !!(r[A] & 0x80);"),
			"r[A] = (r[A] << 1) | (r[A] >> 7);",
		)
	})...)
	c.Register(z80.Rrca, subsetRules(overwrites, func(_ *z80.Instruction, live z80.Values) string {
		return statements(
			when(live, z80.CarryFlag, "cFlag = !!(r[A] & 0x01);"),
			"r[A] = (r[A] >> 1) | (r[A] << 7);",
		)
	})...)
	c.Register(z80.RlcR, subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		target := reg(ins.Reg)
		return statements(
			when(live, z80.CarryFlag, "cFlag = !!(%s & 0x80);", target),
			fmt.Sprintf("%s = (%s << 1) | (%s >> 7);", target, target, target),
			when(live, z80.ParityFlag, "pvFlag = parity(%s);", target),
			zeroSign(live, target),
		)
	})...)

	test := subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		operand := reg(ins.Reg)
		if ins.Kind == z80.BitIndIdx {
			operand = indexedMem(ins)
		}
		mask := imm8(1 << ins.Bit)
		sign := "sFlag = false;"
		if ins.Bit == 7 {
			sign = fmt.Sprintf("sFlag = !!(%s & 0x80);", operand)
		}
		return statements(
			when(live, z80.ZeroFlag, "zFlag = !(%s & %s);", operand, mask),
			when(live, z80.ParityFlag, "pvFlag = !(%s & %s);", operand, mask),
			when(live, z80.SignFlag, "%s", sign),
		)
	})
	c.Register(z80.BitR, test...)
	c.Register(z80.BitIndIdx, test...)

	modify := func(operator string, mask func(bit uint8) uint8) []Rule {
		return plain(func(ins *z80.Instruction) string {
			var target string
			switch ins.Kind {
			case z80.ResIndHL, z80.SetIndHL:
				target = "mem[rp[HL]]"
			case z80.ResIndIdx, z80.SetIndIdx:
				target = indexedMem(ins)
			default:
				target = reg(ins.Reg)
			}
			return fmt.Sprintf("%s %s= %s;", target, operator, imm8(mask(ins.Bit)))
		})
	}
	reset := modify("&", func(bit uint8) uint8 { return ^uint8(1 << bit) })
	set := modify("|", func(bit uint8) uint8 { return 1 << bit })
	c.Register(z80.ResR, reset...)
	c.Register(z80.ResIndHL, reset...)
	c.Register(z80.ResIndIdx, reset...)
	c.Register(z80.SetR, set...)
	c.Register(z80.SetIndHL, set...)
	c.Register(z80.SetIndIdx, set...)
}

func addFlow(c *Catalog) {
	jump := plain(func(ins *z80.Instruction) string {
		target, _ := ins.JumpTarget()
		return jumpTo(target)
	})
	c.Register(z80.Jp, jump...)
	c.Register(z80.Jr, jump...)

	conditionalJump := plain(func(ins *z80.Instruction) string {
		target, _ := ins.JumpTarget()
		return fmt.Sprintf("if (%s) {%s}", condition(ins.Cond), jumpTo(target))
	})
	c.Register(z80.JpCond, conditionalJump...)
	c.Register(z80.JrCond, conditionalJump...)

	c.Register(z80.Djnz, plain(func(ins *z80.Instruction) string {
		target, _ := ins.JumpTarget()
		return fmt.Sprintf("r[B]--; if (r[B] !== 0) {%s}", jumpTo(target))
	})...)

	c.Register(z80.Call, plain(func(ins *z80.Instruction) string {
		target, _ := ins.CallTarget()
		return disasm.RoutineName(target) + "();"
	})...)
	c.Register(z80.CallCond, plain(func(ins *z80.Instruction) string {
		target, _ := ins.CallTarget()
		return fmt.Sprintf("if (%s) %s();", condition(ins.Cond), disasm.RoutineName(target))
	})...)

	c.Register(z80.Ret, plain(text("return;"))...)
	c.Register(z80.RetCond, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("if (%s) return;", condition(ins.Cond))
	})...)
}

var packedFlags = []struct {
	flag z80.Value
	mask uint8
}{
	{z80.CarryFlag, 0x01},
	{z80.ParityFlag, 0x04},
	{z80.ZeroFlag, 0x40},
	{z80.SignFlag, 0x80},
}

func addStack(c *Catalog) {
	c.Register(z80.Push, plain(func(ins *z80.Instruction) string {
		if ins.Pair == z80.AF {
			return "tmp = flags(); rp[SP]--; mem[rp[SP]] = r[A]; rp[SP]--; mem[rp[SP]] = tmp;"
		}
		return fmt.Sprintf("rp[SP]--; mem[rp[SP]] = %s; rp[SP]--; mem[rp[SP]] = %s;",
			reg(ins.Pair.High()), reg(ins.Pair.Low()))
	})...)

	c.Register(z80.Pop, subsetRules(overwrites, func(ins *z80.Instruction, live z80.Values) string {
		if ins.Pair != z80.AF {
			return fmt.Sprintf("%s = mem[rp[SP]]; rp[SP]++; %s = mem[rp[SP]]; rp[SP]++;",
				reg(ins.Pair.Low()), reg(ins.Pair.High()))
		}

		parts := []string{"tmp = mem[rp[SP]]; rp[SP]++; r[A] = mem[rp[SP]]; rp[SP]++;"}
		for _, f := range packedFlags {
			parts = append(parts, when(live, f.flag, "%s = !!(tmp & %s);", flagNames[f.flag], imm8(f.mask)))
		}
		return statements(parts...)
	})...)
}

func addBlock(c *Catalog) {
	c.Register(z80.Ldir, subsetRules(overwrites, func(_ *z80.Instruction, live z80.Values) string {
		return statements(
			"do { mem[rp[DE]] = mem[rp[HL]]; rp[DE]++; rp[HL]++; rp[BC]--; } while (rp[BC] !== 0);",
			when(live, z80.ParityFlag, "pvFlag = false;"),
		)
	})...)

	c.Register(z80.Outd, subsetRules(overwritesExcept(z80.ParityFlag),
		func(_ *z80.Instruction, live z80.Values) string {
			return statements(
				"r[B]--; out(rp[BC], mem[rp[HL]]); rp[HL]--;",
				zeroSign(live, "r[B]"),
			)
		})...)

	c.Register(z80.OutIndCR, plain(func(ins *z80.Instruction) string {
		return fmt.Sprintf("out(rp[BC], %s);", reg(ins.Reg))
	})...)
}
