package z80

import "fmt"

// Memory is the byte source instructions are decoded from.
type Memory interface {
	Read(address uint16) byte
	// ReadWord reads a little-endian word, wrapping at the end of the
	// address space.
	ReadWord(address uint16) uint16
}

// DecodeError is returned for a byte sequence that does not encode a
// supported instruction.
type DecodeError struct {
	Address uint16
	Bytes   []byte // prefix and opcode bytes read up to the rejected opcode
	Table   string // name of the opcode table the opcode was looked up in
	Name    string // mnemonic of a CPU instruction that is not supported, empty for undefined opcodes
}

func (e *DecodeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported instruction %s at 0x%04x: % x", e.Name, e.Address, e.Bytes)
	}
	return fmt.Sprintf("unrecognized %s opcode at 0x%04x: % x", e.Table, e.Address, e.Bytes)
}

// Decode decodes the instruction at the given address. The decoding only
// depends on the memory contents, callers are expected to cache results.
func Decode(mem Memory, address uint16) (*Instruction, error) {
	d := &decoding{
		mem:     mem,
		address: address,
	}

	tbl := rootTable
	for {
		if tbl.displaced {
			d.disp = d.displacement()
		}
		opcode := d.imm8()

		e := tbl.entries[opcode]
		if e.next != nil {
			tbl = e.next
			continue
		}

		op := tbl.opcodes(opcode)
		if !op.Known() || e.build == nil {
			return nil, &DecodeError{
				Address: address,
				Bytes:   d.bytes(),
				Table:   tbl.name,
				Name:    op.Name(),
			}
		}

		ins := e.build(d)
		ins.Address = address
		ins.Opcode = op
		ins.Length = op.Size()
		d.pos = ins.Length
		ins.Bytes = d.bytes()
		ins.Uses, ins.Overwrites = effects(ins)
		flow(ins)
		return ins, nil
	}
}

// decoding is the state of a single instruction decode.
type decoding struct {
	mem     Memory
	address uint16
	pos     int   // offset of the next byte to read
	disp    int16 // displacement read ahead of the opcode in displaced tables
}

func (d *decoding) read(offset int) byte {
	return d.mem.Read(d.address + uint16(offset))
}

func (d *decoding) imm8() uint8 {
	b := d.read(d.pos)
	d.pos++
	return b
}

func (d *decoding) imm16() uint16 {
	w := d.mem.ReadWord(d.address + uint16(d.pos))
	d.pos += 2
	return w
}

func (d *decoding) displacement() int16 {
	return displacement(d.imm8())
}

// bytes returns all bytes consumed so far.
func (d *decoding) bytes() []byte {
	b := make([]byte, d.pos)
	for i := range b {
		b[i] = d.read(i)
	}
	return b
}

// displacement converts a displacement byte to a signed offset. Only values
// above 0x80 are negative, 0x80 itself is +128.
func displacement(b byte) int16 {
	if b > 128 {
		return int16(b) - 256
	}
	return int16(b)
}
