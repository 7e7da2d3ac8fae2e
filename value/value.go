// Package value implements the tagged-union Value type carried on every
// port and every external/view event in the kernel.
package value

import "fmt"

// Kind discriminates the concrete payload held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindTuple
	KindSet
	KindMap
	KindMatrix
	KindTable
	KindXML
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindMatrix:
		return "matrix"
	case KindTable:
		return "table"
	case KindXML:
		return "xml"
	default:
		return "unknown"
	}
}

// Value is a copy-on-share tagged sum over the payload kinds named in
// Exactly one of the typed fields is meaningful, selected by
// Kind; the zero Value is KindNull.
type Value struct {
	kind Kind
	b bool
	i int64
	d float64
	s string
	tuple  []float64
	set    []Value
	m map[string]Value
	matrix [][]Value
	table  [][]float64
	xml string
}

func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Double(d float64) Value     { return Value{kind: KindDouble, d: d} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func XML(s string) Value         { return Value{kind: KindXML, xml: s} }

// Tuple builds a fixed-arity vector-of-doubles value.
func Tuple(v ...float64) Value {
	cp := append([]float64(nil), v...)
	return Value{kind: KindTuple, tuple: cp}
}

// Set builds an ordered heterogeneous list value.
func Set(v ...Value) Value {
	cp := append([]Value(nil), v...)
	return Value{kind: KindSet, set: cp}
}

// Map builds a string-keyed value. The input map is copied.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v.Clone()
	}
	return Value{kind: KindMap, m: cp}
}

// Matrix builds a 2-D grid of values. Rows are copied, not shared.
func Matrix(rows [][]Value) Value {
	cp := make([][]Value, len(rows))
	for i, row := range rows {
		cp[i] = append([]Value(nil), row...)
	}
	return Value{kind: KindMatrix, matrix: cp}
}

// Table builds a 2-D grid of doubles.
func Table(rows [][]float64) Value {
	cp := make([][]float64, len(rows))
	for i, row := range rows {
		cp[i] = append([]float64(nil), row...)
	}
	return Value{kind: KindTable, table: cp}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) Int() (int64, bool)       { return v.i, v.kind == KindInt }
func (v Value) Double() (float64, bool)  { return v.d, v.kind == KindDouble }
func (v Value) Str() (string, bool)      { return v.s, v.kind == KindString }
func (v Value) Tuple() ([]float64, bool) { return v.tuple, v.kind == KindTuple }
func (v Value) Set() ([]Value, bool)     { return v.set, v.kind == KindSet }
func (v Value) Map() (map[string]Value, bool) { return v.m, v.kind == KindMap }
func (v Value) Matrix() ([][]Value, bool) { return v.matrix, v.kind == KindMatrix }
func (v Value) Table() ([][]float64, bool) { return v.table, v.kind == KindTable }
func (v Value) XML() (string, bool)      { return v.xml, v.kind == KindXML }

// Clone returns a deep copy so that fan-out delivery never
// shares mutable backing storage between destinations.
func (v Value) Clone() Value {
	switch v.kind {
	case KindTuple:
		return Tuple(v.tuple...)
	case KindSet:
		cp := make([]Value, len(v.set))
		for i, e := range v.set {
			cp[i] = e.Clone()
		}
		return Value{kind: KindSet, set: cp}
	case KindMap:
		return Map(v.m)
	case KindMatrix:
		cp := make([][]Value, len(v.matrix))
		for i, row := range v.matrix {
			cp[i] = make([]Value, len(row))
			for j, e := range row {
				cp[i][j] = e.Clone()
			}
		}
		return Value{kind: KindMatrix, matrix: cp}
	case KindTable:
		return Table(v.table)
	default:
		return v
	}
}

// GoString renders a debug form used by logging and diagnostics.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindDouble:
		return fmt.Sprintf("%g", v.d)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindXML:
		return fmt.Sprintf("<xml %q>", v.xml)
	default:
		return fmt.Sprintf("%s(...)", v.kind)
	}
}
