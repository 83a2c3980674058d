package z80

import (
	"math/bits"
	"strings"
)

// Value is a register half, shadow register or flag whose reads and writes
// are tracked by the dataflow analysis.
type Value uint8

// Tracked values, in their canonical order.
const (
	A Value = iota
	B
	C
	D
	E
	H
	L
	IXH
	IXL
	IYH
	IYL
	SPH
	SPL
	AShadow
	CarryFlag
	ZeroFlag
	ParityFlag
	SignFlag

	valueCount
)

var valueNames = [valueCount]string{
	A:          "A",
	B:          "B",
	C:          "C",
	D:          "D",
	E:          "E",
	H:          "H",
	L:          "L",
	IXH:        "IXH",
	IXL:        "IXL",
	IYH:        "IYH",
	IYL:        "IYL",
	SPH:        "SPH",
	SPL:        "SPL",
	AShadow:    "A'",
	CarryFlag:  "CF",
	ZeroFlag:   "ZF",
	ParityFlag: "PVF",
	SignFlag:   "SF",
}

func (v Value) String() string {
	if v >= valueCount {
		return "?"
	}
	return valueNames[v]
}

// IsFlag returns whether the value is one of the tracked flags.
func (v Value) IsFlag() bool {
	return v >= CarryFlag && v <= SignFlag
}

// Values is a set of tracked values. The zero value is the empty set.
// It is comparable and can be used as a map key.
type Values uint32

// Flags contains all tracked flags.
var Flags = NewValues(CarryFlag, ZeroFlag, ParityFlag, SignFlag)

// AllValues contains every tracked value.
var AllValues = Values(1<<valueCount - 1)

// NewValues returns a set containing the given values.
func NewValues(values ...Value) Values {
	var s Values
	for _, v := range values {
		s |= 1 << v
	}
	return s
}

// Has returns whether v is in the set.
func (s Values) Has(v Value) bool {
	return s&(1<<v) != 0
}

// With returns the set extended by the given values.
func (s Values) With(values ...Value) Values {
	return s | NewValues(values...)
}

// Without returns the set with the given values removed.
func (s Values) Without(values ...Value) Values {
	return s &^ NewValues(values...)
}

// Union returns all values that are in either set.
func (s Values) Union(other Values) Values {
	return s | other
}

// Intersect returns all values that are in both sets.
func (s Values) Intersect(other Values) Values {
	return s & other
}

// IsEmpty returns whether the set has no members.
func (s Values) IsEmpty() bool {
	return s == 0
}

// Len returns the number of members.
func (s Values) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Slice returns the members in canonical order.
func (s Values) Slice() []Value {
	result := make([]Value, 0, s.Len())
	for v := Value(0); v < valueCount; v++ {
		if s.Has(v) {
			result = append(result, v)
		}
	}
	return result
}

func (s Values) String() string {
	names := make([]string, 0, s.Len())
	for _, v := range s.Slice() {
		names = append(names, v.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
