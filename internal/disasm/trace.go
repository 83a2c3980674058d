package disasm

import (
	"context"
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80decomp/internal/arch/z80"
)

// TraceAll traces the routines starting at the given root addresses in order.
func (dis *Disasm) TraceAll(ctx context.Context, roots []uint16) ([]*Routine, error) {
	routines := make([]*Routine, 0, len(roots))
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("tracing interrupted: %w", err)
		}

		r, err := dis.Trace(root)
		if err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	return routines, nil
}

// Trace traces the routine starting at the given address and all routines it
// calls. Tracing an already traced routine returns it unchanged.
func (dis *Disasm) Trace(start uint16) (*Routine, error) {
	if r, ok := dis.routines.Get(start); ok && r.State == Traced {
		return r, nil
	}

	r, err := dis.trace(start)
	if err != nil {
		return nil, fmt.Errorf("tracing routine 0x%04x: %w", start, err)
	}
	return r, nil
}

// trace follows the execution flow from start. Call targets are traced as
// routines of their own, the return address is only followed if the callee
// can return.
func (dis *Disasm) trace(start uint16) (*Routine, error) {
	r := &Routine{
		Start: start,
		State: Tracing,
	}
	dis.routines.Set(start, r)
	dis.logger.Debug("Tracing routine", log.Hex("address", start))

	visited := set.New[uint16]()
	scheduled := set.New[uint16]()
	toTrace := []uint16{start}
	scheduled.Add(start)

	schedule := func(address uint16) {
		if visited.Contains(address) || scheduled.Contains(address) {
			return
		}
		scheduled.Add(address)
		toTrace = append(toTrace, address)
	}

	for len(toTrace) > 0 {
		address := toTrace[len(toTrace)-1]
		toTrace = toTrace[:len(toTrace)-1]
		if visited.Contains(address) {
			continue
		}
		visited.Add(address)

		ins, _, err := dis.decode(address)
		if err != nil {
			return nil, err
		}

		r.Instructions = append(r.Instructions, ins)
		if ins.IsExit {
			r.ExitPoints = append(r.ExitPoints, ins)
		}

		target, isCall := ins.CallTarget()
		for _, successor := range ins.Successors {
			if isCall && successor == target {
				continue
			}
			schedule(successor)
		}
		if !isCall {
			continue
		}

		r.Calls = append(r.Calls, target)
		callee, err := dis.callee(address, target)
		if err != nil {
			return nil, err
		}

		returnAddress, _ := ins.ReturnAddress()
		for _, exit := range callee.ExitPoints {
			dis.addEdge(exit.Address, returnAddress)
		}
		if len(callee.ExitPoints) > 0 {
			schedule(returnAddress)
		}
	}

	sortByAddress(r.Instructions)
	sortByAddress(r.ExitPoints)
	r.State = Traced

	dis.logger.Debug("Traced routine",
		log.Hex("address", start),
		log.Int("instructions", len(r.Instructions)),
		log.Int("exits", len(r.ExitPoints)),
		log.Int("calls", len(r.Calls)))
	return r, nil
}

// callee returns the traced routine at the call target, tracing it first
// if it is unknown.
func (dis *Disasm) callee(caller, target uint16) (*Routine, error) {
	r, ok := dis.routines.Get(target)
	if !ok {
		return dis.trace(target)
	}
	if r.State == Tracing {
		return nil, &UnsupportedRecursionError{
			Caller: caller,
			Target: target,
		}
	}
	return r, nil
}

func sortByAddress(instructions []*z80.Instruction) {
	slices.SortFunc(instructions, func(a, b *z80.Instruction) int {
		return int(a.Address) - int(b.Address)
	})
}
