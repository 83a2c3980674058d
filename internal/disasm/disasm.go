// Package disasm implements the analysis session of a memory image: memoized
// instruction decoding, the control flow graph and routine tracing.
package disasm

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80decomp/internal/arch/z80"
	"github.com/retroenv/z80decomp/internal/symbols"
)

// Disasm holds all state of an analysis session. The graph only grows:
// instructions, edges and jump targets are never removed.
type Disasm struct {
	logger *log.Logger
	mem    z80.Memory

	instructions map[uint16]*z80.Instruction

	destinations map[uint16]set.Set[uint16] // address -> addresses execution may continue at
	origins      map[uint16]set.Set[uint16] // address -> addresses execution may come from

	jumpTargets set.Set[uint16] // set of all addresses that are jumped to

	routines *symbols.Manager[*Routine]
}

// New creates a new analysis session for the given memory.
func New(logger *log.Logger, mem z80.Memory) *Disasm {
	return &Disasm{
		logger:       logger,
		mem:          mem,
		instructions: make(map[uint16]*z80.Instruction),
		destinations: make(map[uint16]set.Set[uint16]),
		origins:      make(map[uint16]set.Set[uint16]),
		jumpTargets:  set.New[uint16](),
		routines:     symbols.New[*Routine](),
	}
}

// Decode returns the instruction at the given address. Every address is
// decoded once per session, later calls return the same instruction.
func (dis *Disasm) Decode(address uint16) (*z80.Instruction, error) {
	ins, _, err := dis.decode(address)
	return ins, err
}

// decode returns the memoized instruction and whether this call decoded it.
// The static successors of a newly decoded instruction are added to the
// graph.
func (dis *Disasm) decode(address uint16) (*z80.Instruction, bool, error) {
	if ins, ok := dis.instructions[address]; ok {
		return ins, false, nil
	}

	ins, err := z80.Decode(dis.mem, address)
	if err != nil {
		return nil, false, fmt.Errorf("decoding instruction: %w", err)
	}
	dis.instructions[address] = ins

	for _, successor := range ins.Successors {
		dis.addEdge(address, successor)
	}
	if target, ok := ins.JumpTarget(); ok {
		dis.jumpTargets.Add(target)
	}

	dis.logger.Debug("Decoded instruction",
		log.Hex("address", address),
		log.String("instruction", ins.Asm()))
	return ins, true, nil
}

// Instruction returns the already decoded instruction at the given address.
func (dis *Disasm) Instruction(address uint16) (*z80.Instruction, bool) {
	ins, ok := dis.instructions[address]
	return ins, ok
}

// Destinations returns the sorted addresses execution may continue at after
// the instruction at the given address.
func (dis *Disasm) Destinations(address uint16) []uint16 {
	return sortedAddresses(dis.destinations[address])
}

// Origins returns the sorted addresses execution may reach the given address from.
func (dis *Disasm) Origins(address uint16) []uint16 {
	return sortedAddresses(dis.origins[address])
}

// IsJumpTarget returns whether any decoded jump instruction targets the address.
func (dis *Disasm) IsJumpTarget(address uint16) bool {
	return dis.jumpTargets.Contains(address)
}

// JumpTargets returns all jump targets in ascending order.
func (dis *Disasm) JumpTargets() []uint16 {
	return sortedAddresses(dis.jumpTargets)
}

// Routine returns the routine starting at the given address.
func (dis *Disasm) Routine(address uint16) (*Routine, bool) {
	return dis.routines.Get(address)
}

// Routines returns all routines in the order they were discovered.
func (dis *Disasm) Routines() []*Routine {
	return dis.routines.Ordered()
}

// RoutinesByAddress returns all routines sorted by their start address.
func (dis *Disasm) RoutinesByAddress() []*Routine {
	return dis.routines.SortedByUint16(func(r *Routine) uint16 {
		return r.Start
	})
}

// RoutineCount returns the number of known routines.
func (dis *Disasm) RoutineCount() int {
	return dis.routines.Len()
}

func (dis *Disasm) addEdge(from, to uint16) {
	destinations, ok := dis.destinations[from]
	if !ok {
		destinations = set.New[uint16]()
		dis.destinations[from] = destinations
	}
	destinations.Add(to)

	origins, ok := dis.origins[to]
	if !ok {
		origins = set.New[uint16]()
		dis.origins[to] = origins
	}
	origins.Add(from)
}

func sortedAddresses(addresses set.Set[uint16]) []uint16 {
	result := make([]uint16, 0, len(addresses))
	for address := range addresses {
		result = append(result, address)
	}
	slices.Sort(result)
	return result
}
