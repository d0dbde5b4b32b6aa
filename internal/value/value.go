package value

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindBool
	KindText
	KindArray
	KindTable
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one node of a snapshot document. The set of implementations is
// closed; only types in this package satisfy it.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is an explicit YAML null.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) sealed()    {}

// Scalar is a number. It remembers whether it was written as an integer so
// that integers are not turned into floats on a save/load cycle.
type Scalar struct {
	f       float64
	i       int64
	integer bool
}

// Int returns an integer scalar.
func Int(i int64) Scalar { return Scalar{f: float64(i), i: i, integer: true} }

// Float returns a floating point scalar.
func Float(f float64) Scalar { return Scalar{f: f} }

func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) sealed()    {}

// IsInteger reports whether s holds an integer.
func (s Scalar) IsInteger() bool { return s.integer }

// Float64 returns s as a float64 regardless of its representation.
func (s Scalar) Float64() float64 { return s.f }

// Int64 returns the integer value and true, or a truncated value and false
// for floating point scalars.
func (s Scalar) Int64() (int64, bool) {
	if s.integer {
		return s.i, true
	}
	return int64(s.f), false
}

func (s Scalar) String() string {
	if s.integer {
		return strconv.FormatInt(s.i, 10)
	}
	return formatFloat(s.f)
}

// Bool is a boolean leaf.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) sealed()    {}

// Text is a string leaf. After decoding, a Text may be a reference to an
// externalized payload file until it is rehydrated.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) sealed()    {}

// Array is an N-dimensional numeric array stored row-major.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray validates that data holds exactly as many elements as shape describes.
// An empty shape is a 0-d array holding one element.
func NewArray(shape []int, data []float64) (Array, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return Array{}, fmt.Errorf("negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	if n != len(data) {
		return Array{}, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Vector is shorthand for a 1-d array.
func Vector(data ...float64) Array {
	return Array{Shape: []int{len(data)}, Data: data}
}

// Matrix builds a 2-d array from rows of equal length.
func Matrix(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Array{Shape: []int{0, 0}, Data: []float64{}}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Array{}, fmt.Errorf("row %d has %d columns, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return Array{Shape: []int{len(rows), cols}, Data: data}, nil
}

func (Array) Kind() Kind { return KindArray }
func (Array) sealed()    {}

// Len returns the number of elements.
func (a Array) Len() int { return len(a.Data) }

// At returns the element at the given multi-index.
func (a Array) At(idx ...int) (float64, error) {
	if len(idx) != len(a.Shape) {
		return 0, fmt.Errorf("index has %d dimensions, array has %d", len(idx), len(a.Shape))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.Shape[d] {
			return 0, fmt.Errorf("index %d out of range for dimension %d of size %d", i, d, a.Shape[d])
		}
		off = off*a.Shape[d] + i
	}
	return a.Data[off], nil
}

// Column is one named column of a Table. Cells are kept as text exactly as
// they appear in the CSV file.
type Column struct {
	Name  string
	Cells []string
}

// Float64s parses every cell of the column as a float.
func (c Column) Float64s() ([]float64, error) {
	out := make([]float64, len(c.Cells))
	for i, s := range c.Cells {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", c.Name, i, err)
		}
		out[i] = f
	}
	return out, nil
}

// Table is tabular data with ordered, named columns of equal length.
type Table struct {
	Columns []Column
}

// NewTable checks that all columns have the same number of cells.
func NewTable(cols ...Column) (Table, error) {
	for i := 1; i < len(cols); i++ {
		if len(cols[i].Cells) != len(cols[0].Cells) {
			return Table{}, fmt.Errorf("column %q has %d rows, want %d", cols[i].Name, len(cols[i].Cells), len(cols[0].Cells))
		}
	}
	return Table{Columns: cols}, nil
}

func (Table) Kind() Kind { return KindTable }
func (Table) sealed()    {}

// Rows returns the number of records.
func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Column looks up a column by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// List is a YAML sequence.
type List []Value

func (List) Kind() Kind { return KindList }
func (List) sealed()    {}
