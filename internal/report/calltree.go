package report

import (
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80decomp/internal/disasm"
	"github.com/xlab/treeprint"
)

// Program provides the traced routines.
type Program interface {
	Routine(address uint16) (*disasm.Routine, bool)
}

// CallTree renders the routines called from the roots as a tree. A routine
// reached a second time is listed without its callees.
func CallTree(program Program, roots []uint16) string {
	tree := treeprint.New()
	tree.SetValue("calls")

	expanded := set.New[uint16]()
	for _, root := range roots {
		addCalls(tree, program, root, expanded)
	}
	return tree.String()
}

func addCalls(tree treeprint.Tree, program Program, address uint16, expanded set.Set[uint16]) {
	name := disasm.RoutineName(address)
	r, ok := program.Routine(address)
	if !ok {
		tree.AddNode(name + " (not traced)")
		return
	}
	if expanded.Contains(address) {
		tree.AddNode(name + " (shown above)")
		return
	}
	expanded.Add(address)

	callees := uniqueCalls(r.Calls)
	if len(callees) == 0 {
		tree.AddNode(name)
		return
	}

	branch := tree.AddBranch(name)
	for _, callee := range callees {
		addCalls(branch, program, callee, expanded)
	}
}

// uniqueCalls returns the call targets without duplicates in call order.
func uniqueCalls(calls []uint16) []uint16 {
	seen := set.New[uint16]()
	result := make([]uint16, 0, len(calls))
	for _, call := range calls {
		if seen.Contains(call) {
			continue
		}
		seen.Add(call)
		result = append(result, call)
	}
	return result
}
