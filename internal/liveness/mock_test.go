package liveness

import (
	"slices"

	"github.com/retroenv/z80decomp/internal/arch/z80"
)

// mockGraph is a hand built control flow graph.
type mockGraph struct {
	instructions map[uint16]*z80.Instruction
	destinations map[uint16][]uint16
}

func newMockGraph() *mockGraph {
	return &mockGraph{
		instructions: make(map[uint16]*z80.Instruction),
		destinations: make(map[uint16][]uint16),
	}
}

// add adds an instruction with its static successors as destinations and
// optional extra destinations.
func (g *mockGraph) add(ins *z80.Instruction, extra ...uint16) {
	g.instructions[ins.Address] = ins
	g.destinations[ins.Address] = append(slices.Clone(ins.Successors), extra...)
}

func (g *mockGraph) Instruction(address uint16) (*z80.Instruction, bool) {
	ins, ok := g.instructions[address]
	return ins, ok
}

func (g *mockGraph) Destinations(address uint16) []uint16 {
	return g.destinations[address]
}
