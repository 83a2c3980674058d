// Package codegen generates JavaScript functions from traced and analyzed
// routines. Only live instruction results produce flag computations.
package codegen

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80decomp/internal/arch/z80"
	"github.com/retroenv/z80decomp/internal/disasm"
)

// Program provides the traced routines and the jump targets of the program.
type Program interface {
	// Routine returns the traced routine starting at the address.
	Routine(address uint16) (*disasm.Routine, bool)
	// IsJumpTarget returns whether any decoded jump targets the address.
	IsJumpTarget(address uint16) bool
}

// Function is the generated code of one routine.
type Function struct {
	Name  string
	Start uint16
	Code  string

	Routine *disasm.Routine
}

// Generator emits routines using a rule catalog.
type Generator struct {
	logger  *log.Logger
	program Program
	catalog *Catalog
}

// New returns a new generator. A nil catalog selects the default catalog.
func New(logger *log.Logger, program Program, catalog *Catalog) *Generator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Generator{
		logger:  logger,
		program: program,
		catalog: catalog,
	}
}

const (
	bodyIndent   = "\t"
	caseIndent   = "\t\t\t"
	switchIndent = "\t\t\t\t"
)

// Emit generates the function of a routine. All instructions without a
// matching rule are reported together.
func (g *Generator) Emit(r *disasm.Routine) (Function, error) {
	members := set.New[uint16]()
	for _, ins := range r.Instructions {
		members.Add(ins.Address)
	}
	labels := g.caseLabels(r, members)
	dispatch := g.needsDispatch(r, members)

	var b strings.Builder
	fmt.Fprintf(&b, "function %s() {\n", r.Name())
	writeFacts(&b, r)

	indent := bodyIndent
	if dispatch {
		indent = switchIndent
		fmt.Fprintf(&b, "\tvar pc = %s;\n\twhile (true) {\n\t\tswitch (pc) {\n", imm16(r.Start))
	}

	var errs []error
	for i, ins := range r.Instructions {
		if dispatch && labels.Contains(ins.Address) {
			fmt.Fprintf(&b, "%scase %s:\n", caseIndent, imm16(ins.Address))
		}

		rule, ok := g.catalog.Lookup(ins)
		if !ok {
			errs = append(errs, &UnsupportedPatternError{
				Address: ins.Address,
				Kind:    ins.Kind,
				Asm:     ins.Asm(),
				Live:    ins.UsedResults,
			})
			continue
		}

		if code := rule.Emit(ins); code != "" {
			fmt.Fprintf(&b, "%s%s\n", indent, code)
		}

		if dispatch && discontinuous(r, i, members) {
			fmt.Fprintf(&b, "%s%s\n", indent, jumpTo(ins.Next()))
		}
	}

	if dispatch {
		b.WriteString("\t\t}\n\t}\n")
	}
	b.WriteString("}\n")

	if len(errs) > 0 {
		return Function{}, errors.Join(errs...)
	}

	g.logger.Debug("Generated routine",
		log.String("routine", r.Name()),
		log.Int("instructions", len(r.Instructions)))

	return Function{
		Name:    r.Name(),
		Start:   r.Start,
		Code:    b.String(),
		Routine: r,
	}, nil
}

// EmitClosure generates the functions of the roots and of every routine
// reachable from them through calls. Each routine is emitted once, in
// breadth first discovery order. Errors of all routines are returned
// together with the functions that could be generated.
func (g *Generator) EmitClosure(roots []uint16) ([]Function, error) {
	queue := slices.Clone(roots)
	seen := set.New[uint16]()

	var functions []Function
	var errs []error
	for len(queue) > 0 {
		address := queue[0]
		queue = queue[1:]
		if seen.Contains(address) {
			continue
		}
		seen.Add(address)

		r, ok := g.program.Routine(address)
		if !ok {
			return nil, fmt.Errorf("routine 0x%04x has not been traced", address)
		}

		fn, err := g.Emit(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("generating %s: %w", r.Name(), err))
		} else {
			functions = append(functions, fn)
		}
		queue = append(queue, r.Calls...)
	}

	return functions, errors.Join(errs...)
}

// needsDispatch returns whether the routine can not be emitted as straight
// line code.
func (g *Generator) needsDispatch(r *disasm.Routine, members set.Set[uint16]) bool {
	for i, ins := range r.Instructions {
		if ins.Kind.IsJump() || g.program.IsJumpTarget(ins.Address) {
			return true
		}
		if discontinuous(r, i, members) {
			return true
		}
	}
	return false
}

// caseLabels returns the member addresses that dispatch can continue at.
func (g *Generator) caseLabels(r *disasm.Routine, members set.Set[uint16]) set.Set[uint16] {
	labels := set.New[uint16]()
	labels.Add(r.Start)
	for i, ins := range r.Instructions {
		if g.program.IsJumpTarget(ins.Address) {
			labels.Add(ins.Address)
		}
		if discontinuous(r, i, members) {
			labels.Add(ins.Next())
		}
	}
	return labels
}

// discontinuous returns whether the instruction at index i falls through to
// a member of the routine that does not follow it in address order.
func discontinuous(r *disasm.Routine, i int, members set.Set[uint16]) bool {
	ins := r.Instructions[i]
	if !ins.FallsThrough() || !members.Contains(ins.Next()) {
		return false
	}
	return i+1 == len(r.Instructions) || r.Instructions[i+1].Address != ins.Next()
}

// writeFacts writes the comment listing the inputs, outputs and overwritten
// values of the routine.
func writeFacts(b *strings.Builder, r *disasm.Routine) {
	b.WriteString("\t/*\n")
	fmt.Fprintf(b, "\tInputs: %s\n", factList(r.Uses))
	fmt.Fprintf(b, "\tOutputs: %s\n", factList(r.Results))
	fmt.Fprintf(b, "\tOverwrites: %s\n", factList(r.Overwrites))
	b.WriteString("\t*/\n")
}

func factList(values z80.Values) string {
	names := make([]string, 0, values.Len())
	for _, v := range values.Slice() {
		names = append(names, "'"+displayName(v)+"'")
	}
	return "[" + strings.Join(names, ", ") + "]"
}
