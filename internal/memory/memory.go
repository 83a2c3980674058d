// Package memory provides the 64 KiB address space that code is decoded from.
package memory

// Size is the number of addressable bytes.
const Size = 0x10000

// Space is a flat 64 KiB memory image. Addresses wrap modulo Size.
type Space struct {
	data   [Size]byte
	loaded int
}

// New returns an empty address space, all bytes set to zero.
func New() *Space {
	return &Space{}
}

// Load copies the blob into memory starting at base. Bytes that do not fit
// before the end of the address space wrap around to address 0.
// It returns the address following the last byte written.
func (s *Space) Load(base uint16, blob []byte) uint16 {
	address := base
	for _, b := range blob {
		s.data[address] = b
		address++
	}
	s.loaded += len(blob)
	return address
}

// Read reads a byte from memory.
func (s *Space) Read(address uint16) byte {
	return s.data[address]
}

// ReadWord reads a little-endian word from memory. The high byte is read
// from the following address, wrapping at the end of the address space.
func (s *Space) ReadWord(address uint16) uint16 {
	low := uint16(s.data[address])
	high := uint16(s.data[address+1])
	w := (high << 8) | low
	return w
}

// Loaded returns the number of bytes written by Load calls.
func (s *Space) Loaded() int {
	return s.loaded
}

// Bytes returns a copy of the whole address space.
func (s *Space) Bytes() []byte {
	data := make([]byte, Size)
	copy(data, s.data[:])
	return data
}
