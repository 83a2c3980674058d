package codegen

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80decomp/internal/arch/z80"
	"github.com/retroenv/z80decomp/internal/memory"
)

func decode(t *testing.T, code ...byte) *z80.Instruction {
	t.Helper()
	mem := memory.New()
	mem.Load(0x4000, code)
	ins, err := z80.Decode(mem, 0x4000)
	assert.NoError(t, err)
	return ins
}

// subsets returns all subsets of the values.
func subsets(values z80.Values) []z80.Values {
	members := values.Slice()
	result := make([]z80.Values, 0, 1<<len(members))
	for mask := range 1 << len(members) {
		var s z80.Values
		for i, v := range members {
			if mask&(1<<i) != 0 {
				s = s.With(v)
			}
		}
		result = append(result, s)
	}
	return result
}

func TestCatalogCoverage(t *testing.T) {
	encodings := [][]byte{
		{0x00}, {0xf3}, {0xfb}, {0x37}, {0x3f}, {0x2f}, {0xeb}, {0x08},
		{0x78}, {0x3e, 0x05}, {0x7e}, {0x77}, {0x36, 0x05}, {0x1a}, {0x12},
		{0x3a, 0x00, 0x40}, {0x32, 0x00, 0x40}, {0x21, 0x00, 0x40}, {0x2a, 0x00, 0x40},
		{0x22, 0x00, 0x40}, {0xed, 0x73, 0x00, 0x40},
		{0xdd, 0x7e, 0x05}, {0xfd, 0x77, 0xff}, {0xdd, 0x36, 0x05, 0x01},
		{0x3c}, {0x3d}, {0x34}, {0x35}, {0xdd, 0x34, 0x01}, {0xfd, 0x35, 0x01}, {0x23}, {0x3b},
		{0x09}, {0xdd, 0x19}, {0xed, 0x52},
		{0x80}, {0xc6, 0x01}, {0x86}, {0x90}, {0xd6, 0x01}, {0x96},
		{0xa0}, {0xe6, 0x01}, {0xa6}, {0xa8}, {0xee, 0x01}, {0xae},
		{0xb0}, {0xf6, 0x01}, {0xb6}, {0xb8}, {0xfe, 0x01}, {0xbe},
		{0x07}, {0x0f}, {0xcb, 0x00}, {0xcb, 0x7f}, {0xdd, 0xcb, 0x01, 0x46},
		{0xcb, 0x80}, {0xcb, 0x86}, {0xdd, 0xcb, 0x01, 0x86},
		{0xcb, 0xc0}, {0xcb, 0xc6}, {0xfd, 0xcb, 0x01, 0xc6},
		{0xc3, 0x00, 0x40}, {0xc2, 0x00, 0x40}, {0x18, 0x00}, {0x20, 0x00}, {0x10, 0x00},
		{0xcd, 0x00, 0x40}, {0xc4, 0x00, 0x40}, {0xc9}, {0xc0},
		{0xc5}, {0xf5}, {0xc1}, {0xf1},
		{0xed, 0xb0}, {0xed, 0xab}, {0xed, 0x79},
	}

	catalog := DefaultCatalog()
	for _, code := range encodings {
		ins := decode(t, code...)

		for _, live := range subsets(ins.Overwrites) {
			ins.UsedResults = live
			rule, ok := catalog.Lookup(ins)

			gap := live.Has(z80.ParityFlag) && (ins.Kind == z80.SbcHLRR || ins.Kind == z80.Outd)
			if gap {
				assert.False(t, ok, ins.Asm(), live.String())
				continue
			}
			assert.True(t, ok, ins.Asm(), live.String())
			if ok {
				assert.True(t, rule.Live(ins) == live)
			}
		}
	}
}

func TestRuleOutput(t *testing.T) {
	tests := []struct {
		name     string
		code     []byte
		live     z80.Values
		expected string
	}{
		{"load register", []byte{0x78}, z80.NewValues(z80.A), "r[A] = r[B];"},
		{"load indexed negative", []byte{0xfd, 0x77, 0xff}, 0, "mem[(rp[IY] - 0x01) & 0xffff] = r[A];"},
		{"load pair from memory", []byte{0x2a, 0xff, 0xff}, 0, "r[L] = mem[0xffff]; r[H] = mem[0x0000];"},
		{"load stack pointer", []byte{0xed, 0x7b, 0x00, 0x50}, 0, "r[SPL] = mem[0x5000]; r[SPH] = mem[0x5001];"},
		{"dead decrement", []byte{0x3d}, 0, "r[A]--;"},
		{"decrement overflow", []byte{0x3d}, z80.NewValues(z80.ParityFlag), "r[A]--; pvFlag = (r[A] === 0x7f);"},
		{"increment memory with zero flag", []byte{0x34}, z80.NewValues(z80.ZeroFlag),
			"tmp = rp[HL]; mem[tmp]++; zFlag = (mem[tmp] === 0x00);"},
		{"sub without carry", []byte{0xd6, 0x01}, z80.NewValues(z80.A, z80.ZeroFlag),
			"r[A] -= 0x01; zFlag = (r[A] === 0x00);"},
		{"add with carry", []byte{0x80}, z80.NewValues(z80.CarryFlag),
			"acc = r[A]; val = r[B]; tmp = acc + val; r[A] = tmp; cFlag = (tmp > 0xff);"},
		{"and parity", []byte{0xe6, 0x0f}, z80.NewValues(z80.ParityFlag), "r[A] &= 0x0f; pvFlag = parity(r[A]);"},
		{"dead compare", []byte{0xfe, 0x01}, 0, ""},
		{"bit test", []byte{0xcb, 0x6f}, z80.NewValues(z80.ZeroFlag), "zFlag = !(r[A] & 0x20);"},
		{"reset indexed", []byte{0xdd, 0xcb, 0x07, 0xa6}, 0, "mem[(rp[IX] + 0x07) & 0xffff] &= 0xef;"},
		{"negated condition", []byte{0xc2, 0x8e, 0x42}, 0, "if (!zFlag) {pc = 0x428e; break;}"},
		{"conditional call", []byte{0xdc, 0xf8, 0x40}, 0, "if (cFlag) r40f8();"},
		{"pop flags", []byte{0xf1}, z80.NewValues(z80.CarryFlag, z80.ZeroFlag),
			"tmp = mem[rp[SP]]; rp[SP]++; r[A] = mem[rp[SP]]; rp[SP]++; cFlag = !!(tmp & 0x01); zFlag = !!(tmp & 0x40);"},
		{"block copy", []byte{0xed, 0xb0}, z80.NewValues(z80.ParityFlag),
			"do { mem[rp[DE]] = mem[rp[HL]]; rp[DE]++; rp[HL]++; rp[BC]--; } while (rp[BC] !== 0); pvFlag = false;"},
		{"output decrement", []byte{0xed, 0xab}, z80.NewValues(z80.ZeroFlag),
			"r[B]--; out(rp[BC], mem[rp[HL]]); rp[HL]--; zFlag = (r[B] === 0x00);"},
	}

	catalog := DefaultCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := decode(t, tt.code...)
			ins.UsedResults = tt.live

			rule, ok := catalog.Lookup(ins)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, rule.Emit(ins))
		})
	}
}

func TestCatalogRegister(t *testing.T) {
	catalog := NewCatalog()
	ins := decode(t, 0x00)

	_, ok := catalog.Lookup(ins)
	assert.False(t, ok)

	catalog.Register(z80.Nop, Rule{
		Live: func(*z80.Instruction) z80.Values { return 0 },
		Emit: text("/* nothing */"),
	})
	rule, ok := catalog.Lookup(ins)
	assert.True(t, ok)
	assert.Equal(t, "/* nothing */", rule.Emit(ins))
	assert.Equal(t, 1, catalog.Len())
	assert.True(t, strings.HasPrefix(ins.Asm(), "NOP"))
}
