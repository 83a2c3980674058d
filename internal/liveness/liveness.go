// Package liveness computes which register and flag writes are read later,
// using a bounded depth first search per query over the control flow graph.
package liveness

import (
	"slices"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80decomp/internal/arch/z80"
	"github.com/retroenv/z80decomp/internal/disasm"
)

// Graph provides the decoded instructions and the control flow edges.
type Graph interface {
	// Instruction returns the decoded instruction at the given address.
	Instruction(address uint16) (*z80.Instruction, bool)
	// Destinations returns the addresses execution may continue at, including
	// the continuation edges from routine exits to return addresses.
	Destinations(address uint16) []uint16
}

// Analyzer answers liveness queries over a graph.
type Analyzer struct {
	logger *log.Logger
	graph  Graph
}

// New returns a new analyzer.
func New(logger *log.Logger, graph Graph) *Analyzer {
	return &Analyzer{
		logger: logger,
		graph:  graph,
	}
}

// IsUsed returns whether the value is read on any path starting at one of
// the given addresses before being overwritten.
func (a *Analyzer) IsUsed(value z80.Value, from []uint16) bool {
	return a.search(value, from, false)
}

// IsUsedBeforeExit works like IsUsed but does not leave a routine through
// its exit points: at an exit only the static successors are followed.
func (a *Analyzer) IsUsedBeforeExit(value z80.Value, from []uint16) bool {
	return a.search(value, from, true)
}

func (a *Analyzer) search(value z80.Value, from []uint16, restricted bool) bool {
	visited := set.New[uint16]()
	toVisit := slices.Clone(from)

	for len(toVisit) > 0 {
		address := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]
		if visited.Contains(address) {
			continue
		}
		visited.Add(address)

		ins, ok := a.graph.Instruction(address)
		if !ok {
			continue
		}
		if ins.Uses.Has(value) {
			return true
		}
		if ins.Overwrites.Has(value) {
			continue
		}

		if restricted && ins.IsExit {
			toVisit = append(toVisit, ins.Successors...)
		} else {
			toVisit = append(toVisit, a.graph.Destinations(address)...)
		}
	}
	return false
}

// UsedResults returns the values written by the instruction that are read
// on some path after it.
func (a *Analyzer) UsedResults(ins *z80.Instruction) z80.Values {
	destinations := a.graph.Destinations(ins.Address)

	var used z80.Values
	for _, value := range ins.Overwrites.Slice() {
		if a.IsUsed(value, destinations) {
			used = used.With(value)
		}
	}
	return used
}

// Analyze attaches the routine facts to all given routines and the used
// results to all their instructions.
func (a *Analyzer) Analyze(routines []*disasm.Routine) {
	analyzed := set.New[uint16]()

	for _, r := range routines {
		a.AnalyzeRoutine(r)

		for _, ins := range r.Instructions {
			if analyzed.Contains(ins.Address) {
				continue
			}
			analyzed.Add(ins.Address)
			ins.UsedResults = a.UsedResults(ins)
		}
	}
}

// AnalyzeRoutine computes the inputs, overwritten values and results of the
// routine.
func (a *Analyzer) AnalyzeRoutine(r *disasm.Routine) {
	entry := []uint16{r.Start}

	var uses, overwrites, results z80.Values
	for _, value := range z80.AllValues.Slice() {
		if a.IsUsedBeforeExit(value, entry) {
			uses = uses.With(value)
		}
	}

	for _, ins := range r.Instructions {
		overwrites = overwrites.Union(ins.Overwrites)
	}

	continuations := a.continuations(r)
	for _, value := range overwrites.Slice() {
		if a.IsUsed(value, continuations) {
			results = results.With(value)
		}
	}

	r.Uses = uses
	r.Overwrites = overwrites
	r.Results = results

	a.logger.Debug("Analyzed routine",
		log.String("routine", r.Name()),
		log.Stringer("inputs", uses),
		log.Stringer("outputs", results),
		log.Stringer("overwrites", overwrites))
}

// continuations returns the return addresses that the exit points of the
// routine were linked to by its callers.
func (a *Analyzer) continuations(r *disasm.Routine) []uint16 {
	var result []uint16
	for _, exit := range r.ExitPoints {
		for _, destination := range a.graph.Destinations(exit.Address) {
			if !slices.Contains(exit.Successors, destination) {
				result = append(result, destination)
			}
		}
	}
	return result
}
