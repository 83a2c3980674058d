package z80

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

const testAddress = 0x4000

//nolint:funlen // table driven test
func TestDecode(t *testing.T) {
	tests := []struct {
		code       []byte
		asm        string
		length     int
		uses       Values
		overwrites Values
		successors []uint16
		exit       bool
	}{
		{[]byte{0x00}, "NOP", 1, 0, 0, []uint16{0x4001}, false},
		{[]byte{0x3e, 0x05}, "LD A,0x05", 2, 0, NewValues(A), []uint16{0x4002}, false},
		{[]byte{0x7e}, "LD A,(HL)", 1, NewValues(H, L), NewValues(A), []uint16{0x4001}, false},
		{[]byte{0x47}, "LD B,A", 1, NewValues(A), NewValues(B), []uint16{0x4001}, false},
		{[]byte{0x21, 0x3c, 0x44}, "LD HL,0x443c", 3, 0, NewValues(H, L), []uint16{0x4003}, false},
		{[]byte{0x31, 0x00, 0xc0}, "LD SP,0xc000", 3, 0, NewValues(SPH, SPL), []uint16{0x4003}, false},
		{[]byte{0x2a, 0x7b, 0x40}, "LD HL,(0x407b)", 3, 0, NewValues(H, L), []uint16{0x4003}, false},
		{[]byte{0x32, 0x78, 0x40}, "LD (0x4078),A", 3, NewValues(A), 0, []uint16{0x4003}, false},
		{[]byte{0x3d}, "DEC A", 1, NewValues(A), NewValues(A, ZeroFlag, ParityFlag, SignFlag), []uint16{0x4001}, false},
		{[]byte{0x29}, "ADD HL,HL", 1, NewValues(H, L), NewValues(H, L, CarryFlag), []uint16{0x4001}, false},
		{[]byte{0xeb}, "EX DE,HL", 1, NewValues(D, E, H, L), NewValues(D, E, H, L), []uint16{0x4001}, false},
		{[]byte{0x08}, "EX AF,AF'", 1, Flags.With(A, AShadow), Flags.With(A, AShadow), []uint16{0x4001}, false},
		{[]byte{0xfe, 0x80}, "CP 0x80", 2, NewValues(A), Flags, []uint16{0x4002}, false},
		{[]byte{0xa8}, "XOR B", 1, NewValues(A, B), Flags.With(A), []uint16{0x4001}, false},
		{[]byte{0x0f}, "RRCA", 1, NewValues(A), NewValues(A, CarryFlag), []uint16{0x4001}, false},
		{[]byte{0xf5}, "PUSH AF", 1, Flags.With(A), 0, []uint16{0x4001}, false},
		{[]byte{0xd1}, "POP DE", 1, 0, NewValues(D, E), []uint16{0x4001}, false},

		{[]byte{0xcb, 0x01}, "RLC C", 2, NewValues(C), Flags.With(C), []uint16{0x4002}, false},
		{[]byte{0xcb, 0x50}, "BIT 2,B", 2, NewValues(B), NewValues(ZeroFlag, ParityFlag, SignFlag), []uint16{0x4002}, false},
		{[]byte{0xcb, 0xa2}, "RES 4,D", 2, NewValues(D), NewValues(D), []uint16{0x4002}, false},
		{[]byte{0xcb, 0xe6}, "SET 4,(HL)", 2, NewValues(H, L), 0, []uint16{0x4002}, false},

		{[]byte{0xed, 0xb0}, "LDIR", 2, NewValues(B, C, D, E, H, L), NewValues(B, C, D, E, H, L, ParityFlag), []uint16{0x4002}, false},
		{[]byte{0xed, 0xab}, "OUTD", 2, NewValues(B, C, H, L), NewValues(B, H, L, ZeroFlag, ParityFlag, SignFlag), []uint16{0x4002}, false},
		{[]byte{0xed, 0x79}, "OUT (C),A", 2, NewValues(A, B, C), 0, []uint16{0x4002}, false},
		{[]byte{0xed, 0x52}, "SBC HL,DE", 2, NewValues(D, E, H, L, CarryFlag), Flags.With(H, L), []uint16{0x4002}, false},
		{[]byte{0xed, 0x4b, 0x00, 0x50}, "LD BC,(0x5000)", 4, 0, NewValues(B, C), []uint16{0x4004}, false},

		{[]byte{0xdd, 0x21, 0x84, 0x40}, "LD IX,0x4084", 4, 0, NewValues(IXH, IXL), []uint16{0x4004}, false},
		{[]byte{0xdd, 0x7e, 0x07}, "LD A,(IX+0x07)", 3, NewValues(IXH, IXL), NewValues(A), []uint16{0x4003}, false},
		{[]byte{0xdd, 0x36, 0x00, 0x00}, "LD (IX+0x00),0x00", 4, NewValues(IXH, IXL), 0, []uint16{0x4004}, false},
		{[]byte{0xdd, 0x35, 0x02}, "DEC (IX+0x02)", 3, NewValues(IXH, IXL), NewValues(ZeroFlag, ParityFlag, SignFlag), []uint16{0x4003}, false},
		{[]byte{0xfd, 0x77, 0xff}, "LD (IY-0x01),A", 3, NewValues(IYH, IYL, A), 0, []uint16{0x4003}, false},
		{[]byte{0xfd, 0x19}, "ADD IY,DE", 2, NewValues(D, E, IYH, IYL), NewValues(IYH, IYL, CarryFlag), []uint16{0x4002}, false},
		{[]byte{0xdd, 0xcb, 0x01, 0x6e}, "BIT 5,(IX+0x01)", 4, NewValues(IXH, IXL), NewValues(ZeroFlag, ParityFlag, SignFlag), []uint16{0x4004}, false},
		{[]byte{0xfd, 0xcb, 0xfe, 0xc6}, "SET 0,(IY-0x02)", 4, NewValues(IYH, IYL), 0, []uint16{0x4004}, false},

		{[]byte{0xc3, 0x44, 0x41}, "JP 0x4144", 3, 0, 0, []uint16{0x4144}, false},
		{[]byte{0xc2, 0x8e, 0x42}, "JP NZ,0x428e", 3, NewValues(ZeroFlag), 0, []uint16{0x428e, 0x4003}, false},
		{[]byte{0x18, 0xfe}, "JR 0x4000", 2, 0, 0, []uint16{0x4000}, false},
		{[]byte{0x38, 0x10}, "JR C,0x4012", 2, NewValues(CarryFlag), 0, []uint16{0x4012, 0x4002}, false},
		{[]byte{0x10, 0xfc}, "DJNZ 0x3ffe", 2, NewValues(B), NewValues(B), []uint16{0x3ffe, 0x4002}, false},
		{[]byte{0xcd, 0xb5, 0x40}, "CALL 0x40b5", 3, 0, 0, []uint16{0x40b5}, false},
		{[]byte{0xcc, 0xf8, 0x40}, "CALL Z,0x40f8", 3, NewValues(ZeroFlag), 0, []uint16{0x40f8, 0x4003}, false},
		{[]byte{0xc9}, "RET", 1, 0, 0, nil, true},
		{[]byte{0xf0}, "RET P", 1, NewValues(SignFlag), 0, []uint16{0x4001}, true},
	}

	for _, tt := range tests {
		t.Run(tt.asm, func(t *testing.T) {
			mem := newMockMemory(testAddress, tt.code...)

			ins, err := Decode(mem, testAddress)
			assert.NoError(t, err)
			assert.Equal(t, tt.asm, ins.Asm())
			assert.True(t, ins.Opcode.Known())
			assert.True(t, strings.HasPrefix(tt.asm, ins.Opcode.Name()+" ") || tt.asm == ins.Opcode.Name())
			assert.Equal(t, tt.length, ins.Length)
			assert.Equal(t, tt.code, ins.Bytes)
			assert.Equal(t, tt.uses, ins.Uses)
			assert.Equal(t, tt.overwrites, ins.Overwrites)
			assert.Equal(t, tt.successors, ins.Successors)
			assert.Equal(t, tt.exit, ins.IsExit)
		})
	}
}

func TestDecodeCallAndJumpTargets(t *testing.T) {
	mem := newMockMemory(testAddress, 0xcd, 0x00, 0x50)
	ins, err := Decode(mem, testAddress)
	assert.NoError(t, err)

	target, ok := ins.CallTarget()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x5000), target)
	ret, ok := ins.ReturnAddress()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x4003), ret)
	_, ok = ins.JumpTarget()
	assert.False(t, ok)

	mem = newMockMemory(testAddress, 0x20, 0x05)
	ins, err = Decode(mem, testAddress)
	assert.NoError(t, err)

	_, ok = ins.CallTarget()
	assert.False(t, ok)
	jump, ok := ins.JumpTarget()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x4007), jump)
}

func TestDecodeWrapsAddressSpace(t *testing.T) {
	mem := newMockMemory(0xfffe, 0x21, 0x3c, 0x44) // LD HL,0x443c

	ins, err := Decode(mem, 0xfffe)
	assert.NoError(t, err)
	assert.Equal(t, "LD HL,0x443c", ins.Asm())
	assert.Equal(t, []byte{0x21, 0x3c, 0x44}, ins.Bytes)
	assert.Equal(t, uint16(0x0001), ins.Next())
}

func TestDecodeDisplacement(t *testing.T) {
	tests := []struct {
		b    byte
		want int16
	}{
		{0x00, 0},
		{0x7f, 127},
		{0x80, 128},
		{0x81, -127},
		{0xff, -1},
	}

	for _, tt := range tests {
		mem := newMockMemory(testAddress, 0xdd, 0x7e, tt.b)
		ins, err := Decode(mem, testAddress)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, ins.Disp)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	tests := []struct {
		name     string
		code     []byte
		table    string
		mnemonic string
		message  string
	}{
		{"daa is not supported", []byte{0x27}, "root", "DAA", "unsupported instruction DAA at 0x4000: 27"},
		{"halt is not supported", []byte{0x76}, "root", "HALT", "unsupported instruction HALT at 0x4000: 76"},
		{"extended", []byte{0xed, 0x00}, "ED", "", "unrecognized ED opcode at 0x4000: ed 00"},
		{"bit", []byte{0xcb, 0x36}, "CB", "SLL", "unsupported instruction SLL at 0x4000: cb 36"},
		{"index", []byte{0xfd, 0x00}, "FD", "", "unrecognized FD opcode at 0x4000: fd 00"},
		{"undocumented index", []byte{0xdd, 0x44}, "DD", "LD", "unsupported instruction LD at 0x4000: dd 44"},
		{"index bit", []byte{0xdd, 0xcb, 0x05, 0x00}, "DD CB", "RLC", "unsupported instruction RLC at 0x4000: dd cb 05 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newMockMemory(testAddress, tt.code...)

			ins, err := Decode(mem, testAddress)
			assert.True(t, ins == nil)

			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, uint16(testAddress), decodeErr.Address)
			assert.Equal(t, tt.code, decodeErr.Bytes)
			assert.Equal(t, tt.table, decodeErr.Table)
			assert.Equal(t, tt.mnemonic, decodeErr.Name)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

// TestDecodeLength checks for all prefix and opcode combinations that the
// instruction length covers exactly the bytes read, so that decoding at the
// next address never overlaps the instruction.
func TestDecodeLength(t *testing.T) {
	prefixes := [][]byte{nil, {0xcb}, {0xed}, {0xdd}, {0xfd}, {0xdd, 0xcb, 0x12}, {0xfd, 0xcb, 0x12}}

	for _, prefix := range prefixes {
		for op := range 256 {
			code := append(append([]byte{}, prefix...), byte(op), 0x34, 0x12)
			mem := newMockMemory(testAddress, code...)

			ins, err := Decode(mem, testAddress)
			if err != nil {
				continue
			}

			assert.True(t, ins.Length >= 1 && ins.Length <= 4)
			assert.Equal(t, ins.Length, len(ins.Bytes))
			assert.Equal(t, uint16(testAddress+ins.Length), ins.Next())
			assert.Equal(t, code[:ins.Length], ins.Bytes)
		}
	}
}
