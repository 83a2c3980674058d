package codegen

import (
	"fmt"
	"strings"

	"github.com/retroenv/z80decomp/internal/arch/z80"
)

var flagNames = map[z80.Value]string{
	z80.CarryFlag:  "cFlag",
	z80.ZeroFlag:   "zFlag",
	z80.ParityFlag: "pvFlag",
	z80.SignFlag:   "sFlag",
}

// valueName returns the JavaScript lvalue holding the tracked value.
func valueName(v z80.Value) string {
	if name, ok := flagNames[v]; ok {
		return name
	}
	if v == z80.AShadow {
		return "aShadow"
	}
	return fmt.Sprintf("r[%s]", v)
}

// displayName returns the name a value is listed with in function comments.
func displayName(v z80.Value) string {
	if name, ok := flagNames[v]; ok {
		return name
	}
	if v == z80.AShadow {
		return "aShadow"
	}
	return v.String()
}

func reg(v z80.Value) string {
	return valueName(v)
}

func pair(p z80.Pair) string {
	return fmt.Sprintf("rp[%s]", p)
}

func imm8(n uint8) string {
	return fmt.Sprintf("0x%02x", n)
}

func imm16(n uint16) string {
	return fmt.Sprintf("0x%04x", n)
}

// indexedAddress returns the expression of an (IX+d) or (IY+d) address.
func indexedAddress(ins *z80.Instruction) string {
	if ins.Disp < 0 {
		return fmt.Sprintf("(%s - 0x%02x) & 0xffff", pair(ins.Index), -ins.Disp)
	}
	return fmt.Sprintf("(%s + 0x%02x) & 0xffff", pair(ins.Index), ins.Disp)
}

func indexedMem(ins *z80.Instruction) string {
	return "mem[" + indexedAddress(ins) + "]"
}

// condition returns the expression testing the condition of the instruction.
func condition(c z80.Condition) string {
	name := flagNames[c.Flag()]
	if c.Negated() {
		return "!" + name
	}
	return name
}

// jumpTo returns the dispatch statements continuing execution at address.
func jumpTo(address uint16) string {
	return fmt.Sprintf("pc = %s; break;", imm16(address))
}

// statements joins the non empty statements of an instruction to one line.
func statements(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	return b.String()
}

// when returns the statement if the value is live.
func when(live z80.Values, v z80.Value, format string, args ...any) string {
	if !live.Has(v) {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// zeroSign returns the zero and sign flag updates for an 8-bit result.
func zeroSign(live z80.Values, result string) string {
	return statements(
		when(live, z80.ZeroFlag, "zFlag = (%s === 0x00);", result),
		when(live, z80.SignFlag, "sFlag = !!(%s & 0x80);", result),
	)
}
