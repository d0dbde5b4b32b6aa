package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_OrderAndReplace(t *testing.T) {
	m := NewMapping()
	m.Set("b", Int(1))
	m.Set("a", Float(2.5))
	m.Set("b", Text("replaced"))

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, Text("replaced"), v)

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	assert.Equal(t, []string{"a"}, m.Keys())
	_, ok = m.Get("a")
	assert.True(t, ok)
}

func TestMapping_CloneIsIndependent(t *testing.T) {
	m := MappingOf("outer", MappingOf("x", 1))
	c := m.Clone()

	inner, _ := c.Get("outer")
	inner.(*Mapping).Set("x", Int(2))

	orig, _ := m.Get("outer")
	x, _ := orig.(*Mapping).Get("x")
	assert.Equal(t, Int(1), x)
}

func TestNewArray(t *testing.T) {
	a, err := NewArray([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	v, err := a.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = a.At(2, 0)
	assert.Error(t, err)

	_, err = NewArray([]int{2, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestMatrix(t *testing.T) {
	a, err := Matrix([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, a.Shape)
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data)

	_, err = Matrix([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	tbl, err := NewTable(
		Column{Name: "x", Cells: []string{"1", "2.5"}},
		Column{Name: "label", Cells: []string{"a", "b"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())

	x, ok := tbl.Column("x")
	require.True(t, ok)
	f, err := x.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, f)

	label, _ := tbl.Column("label")
	_, err = label.Float64s()
	assert.Error(t, err)

	_, err = NewTable(Column{Name: "a", Cells: []string{"1"}}, Column{Name: "b"})
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int vs float differ", Int(1), Float(1), false},
		{"same float", Float(1.5), Float(1.5), true},
		{"arrays", Vector(1, 2), Vector(1, 2), true},
		{"array shapes differ", Vector(1, 2, 3, 4), Array{Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}, false},
		{"mapping order ignored", MappingOf("a", 1, "b", 2), MappingOf("b", 2, "a", 1), true},
		{"mapping value differs", MappingOf("a", 1), MappingOf("a", 2), false},
		{"lists", List{Text("a"), Bool(true)}, List{Text("a"), Bool(true)}, true},
		{"nil and null", nil, Null{}, true},
		{"tables", Table{Columns: []Column{{Name: "c", Cells: []string{"1"}}}}, Table{Columns: []Column{{Name: "c", Cells: []string{"1"}}}}, true},
		{"table cells differ", Table{Columns: []Column{{Name: "c", Cells: []string{"1"}}}}, Table{Columns: []Column{{Name: "c", Cells: []string{"2"}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestToInterface(t *testing.T) {
	arr, err := Matrix([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	m := MappingOf(
		"gain", 1.5,
		"count", 3,
		"enabled", true,
		"name", "arm",
		"matrix", arr,
		"nested", MappingOf("n", nil),
	)

	got := MappingToMap(m)
	assert.Equal(t, 1.5, got["gain"])
	assert.Equal(t, int64(3), got["count"])
	assert.Equal(t, true, got["enabled"])
	assert.Equal(t, "arm", got["name"])
	assert.Equal(t, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}, got["matrix"])
	assert.Equal(t, map[string]any{"n": nil}, got["nested"])
}

func TestFromInterface_SortsMapKeys(t *testing.T) {
	v, err := FromInterface(map[string]any{"z": 1, "a": []any{"x", 2.0}})
	require.NoError(t, err)
	m := v.(*Mapping)
	assert.Equal(t, []string{"a", "z"}, m.Keys())
	a, _ := m.Get("a")
	assert.Equal(t, List{Text("x"), Float(2)}, a)

	_, err = FromInterface(struct{}{})
	assert.Error(t, err)
}
