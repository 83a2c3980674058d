package codegen

import (
	"github.com/retroenv/z80decomp/internal/arch/z80"
)

// Rule generates the code of an instruction for exactly one set of live
// results.
type Rule struct {
	// Live returns the live result set the rule handles for the instruction.
	Live func(ins *z80.Instruction) z80.Values
	// Emit returns the statements implementing the instruction.
	Emit func(ins *z80.Instruction) string
}

// Catalog maps instruction kinds to their code generation rules.
type Catalog struct {
	rules map[z80.Kind][]Rule
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		rules: make(map[z80.Kind][]Rule),
	}
}

// Register adds rules for the instruction kind. Earlier rules win when two
// rules handle the same live set.
func (c *Catalog) Register(kind z80.Kind, rules ...Rule) {
	c.rules[kind] = append(c.rules[kind], rules...)
}

// Lookup returns the rule whose live set equals the used results of the
// instruction.
func (c *Catalog) Lookup(ins *z80.Instruction) (Rule, bool) {
	for _, rule := range c.rules[ins.Kind] {
		if rule.Live(ins) == ins.UsedResults {
			return rule, true
		}
	}
	return Rule{}, false
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int {
	n := 0
	for _, rules := range c.rules {
		n += len(rules)
	}
	return n
}

// unmatchable never equals a used result set.
const unmatchable = z80.Values(1 << 31)

// maxOptional is the largest number of optional results that subset rules
// are generated for.
const maxOptional = 7

// subsetRules returns one rule for every subset of the optional results of
// an instruction. The emitter receives the live set of the matched rule.
func subsetRules(optional func(ins *z80.Instruction) z80.Values,
	emit func(ins *z80.Instruction, live z80.Values) string) []Rule {

	rules := make([]Rule, 0, 1<<maxOptional)
	for mask := range 1 << maxOptional {
		live := func(ins *z80.Instruction) z80.Values {
			return pick(optional(ins), mask)
		}
		rules = append(rules, Rule{
			Live: live,
			Emit: func(ins *z80.Instruction) string {
				return emit(ins, live(ins))
			},
		})
	}
	return rules
}

// pick returns the members of the set selected by the bits of mask, in
// canonical order. Masks selecting more members than exist are unmatchable.
func pick(values z80.Values, mask int) z80.Values {
	members := values.Slice()
	if mask >= 1<<len(members) {
		return unmatchable
	}

	var result z80.Values
	for i, v := range members {
		if mask&(1<<i) != 0 {
			result = result.With(v)
		}
	}
	return result
}

// overwrites returns all results of the instruction.
func overwrites(ins *z80.Instruction) z80.Values {
	return ins.Overwrites
}

// overwritesExcept returns a function returning all results of the
// instruction except the given ones. Liveness of the excluded results has
// no rule.
func overwritesExcept(values ...z80.Value) func(ins *z80.Instruction) z80.Values {
	return func(ins *z80.Instruction) z80.Values {
		return ins.Overwrites.Without(values...)
	}
}

// plain returns rules for instructions whose code does not depend on which
// of their results are live.
func plain(emit func(ins *z80.Instruction) string) []Rule {
	return subsetRules(overwrites, func(ins *z80.Instruction, _ z80.Values) string {
		return emit(ins)
	})
}

// text returns an emitter for a constant statement.
func text(s string) func(*z80.Instruction) string {
	return func(*z80.Instruction) string {
		return s
	}
}
