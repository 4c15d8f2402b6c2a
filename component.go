// Package kumiai implements an entity manager with bitset-indexed component
// and tag membership, handle staleness detection and incrementally maintained
// query groupings.
package kumiai

import (
	"fmt"
	"reflect"
)

// MaxTypes defines the maximum number of declared component and tag types a
// Manager can index. This value is fixed at 256, one bit each.
const MaxTypes = 256

// Kind distinguishes payload-carrying components from payload-free tags.
type Kind uint8

const (
	KindComponent Kind = iota
	KindTag
)

func (k Kind) String() string {
	if k == KindTag {
		return "tag"
	}
	return "component"
}

// Type identifies a declared component or tag type. It is used both to
// declare a Schema and to name the types of a query or grouping.
type Type struct {
	typ      reflect.Type
	newIndex func(Kind) entityIndex
}

// TypeOf returns the Type descriptor for T.
func TypeOf[T any]() Type {
	return Type{
		typ: reflect.TypeFor[T](),
		newIndex: func(k Kind) entityIndex {
			if k == KindTag {
				return &tagIndex[T]{}
			}
			return &componentStore[T]{}
		},
	}
}

// String returns the Go type name.
func (t Type) String() string {
	if t.typ == nil {
		return "<nil>"
	}
	return t.typ.String()
}

// Schema declares the component and tag types a Manager indexes. Bits are
// assigned in declaration order, components first.
type Schema struct {
	Components []Type
	Tags       []Type
}

// typeInfo is one row of the fixed type→bit table.
type typeInfo struct {
	typ  reflect.Type
	kind Kind
}

// typeTable is built once from a Schema at manager construction and never
// changes afterwards.
type typeTable struct {
	byType        map[reflect.Type]uint8
	infos         []typeInfo
	numComponents int
}

// newTypeTable validates the schema and assigns bits. It panics on a
// duplicate declaration or when more than MaxTypes types are declared.
func newTypeTable(s Schema) (typeTable, []entityIndex) {
	total := len(s.Components) + len(s.Tags)
	if total > MaxTypes {
		panic(fmt.Sprintf("kumiai: %d types declared, maximum is %d", total, MaxTypes))
	}
	tt := typeTable{
		byType:        make(map[reflect.Type]uint8, total),
		infos:         make([]typeInfo, 0, total),
		numComponents: len(s.Components),
	}
	indexes := make([]entityIndex, 0, total)
	declare := func(t Type, k Kind) {
		if t.typ == nil {
			panic("kumiai: zero Type in schema, use TypeOf")
		}
		if bit, ok := tt.byType[t.typ]; ok {
			panic(fmt.Sprintf("kumiai: %s declared twice (already a %s)", t.typ, tt.infos[bit].kind))
		}
		bit := uint8(len(tt.infos))
		tt.byType[t.typ] = bit
		tt.infos = append(tt.infos, typeInfo{typ: t.typ, kind: k})
		indexes = append(indexes, t.newIndex(k))
	}
	for _, t := range s.Components {
		declare(t, KindComponent)
	}
	for _, t := range s.Tags {
		declare(t, KindTag)
	}
	return tt, indexes
}

// bitOf returns the bit of a declared type of the given kind. Using an
// undeclared type, or a tag where a component is expected, is a static misuse
// and panics.
func (tt *typeTable) bitOf(t reflect.Type, k Kind) uint8 {
	bit, ok := tt.byType[t]
	if !ok {
		panic(fmt.Sprintf("kumiai: %s is not a declared %s", t, k))
	}
	if tt.infos[bit].kind != k {
		panic(fmt.Sprintf("kumiai: %s is declared as a %s, not a %s", t, tt.infos[bit].kind, k))
	}
	return bit
}

// maskOf builds the target mask for a query or grouping. Components and
// tags may be mixed freely.
func (tt *typeTable) maskOf(types []Type) bitmask256 {
	var m bitmask256
	for _, t := range types {
		bit, ok := tt.byType[t.typ]
		if !ok {
			panic(fmt.Sprintf("kumiai: %s is not a declared component or tag", t))
		}
		m.set(bit)
	}
	return m
}
