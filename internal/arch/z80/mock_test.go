package z80

// mockMemory is a 64 KiB memory image for decoder tests.
type mockMemory struct {
	data [0x10000]byte
}

func newMockMemory(address uint16, code ...byte) *mockMemory {
	m := &mockMemory{}
	for _, b := range code {
		m.data[address] = b
		address++
	}
	return m
}

func (m *mockMemory) Read(address uint16) byte {
	return m.data[address]
}

func (m *mockMemory) ReadWord(address uint16) uint16 {
	return uint16(m.data[address+1])<<8 | uint16(m.data[address])
}
