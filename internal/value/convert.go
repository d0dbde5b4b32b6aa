package value

import (
	"fmt"
	"sort"
)

// ToInterface converts v into plain Go values suitable for encoding/json or a
// parameter server: maps, slices, strings, bools, int64 and float64. Arrays
// become nested slices following their shape and tables become a map of
// column name to cells.
func ToInterface(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Scalar:
		if i, ok := t.Int64(); ok {
			return i
		}
		return t.Float64()
	case Bool:
		return bool(t)
	case Text:
		return string(t)
	case Array:
		if len(t.Shape) == 0 {
			if len(t.Data) == 0 {
				return nil
			}
			return t.Data[0]
		}
		out, _ := nest(t.Shape, t.Data)
		return out
	case Table:
		out := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			cells := make([]any, len(c.Cells))
			for i, s := range c.Cells {
				cells[i] = s
			}
			out[c.Name] = cells
		}
		return out
	case List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToInterface(item)
		}
		return out
	case *Mapping:
		return MappingToMap(t)
	default:
		return nil
	}
}

// MappingToMap is ToInterface specialised for mappings.
func MappingToMap(m *Mapping) map[string]any {
	out := make(map[string]any, m.Len())
	for _, e := range m.Entries() {
		out[e.Key] = ToInterface(e.Value)
	}
	return out
}

func nest(shape []int, data []float64) ([]any, []float64) {
	out := make([]any, shape[0])
	for i := range out {
		if len(shape) == 1 {
			out[i] = data[0]
			data = data[1:]
			continue
		}
		out[i], data = nest(shape[1:], data)
	}
	return out, data
}

// FromInterface converts plain Go values into a Value. Values that already
// implement Value are returned unchanged. Maps with string keys are converted
// with their keys sorted, since Go maps carry no order.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return Text(t), nil
	case []float64:
		return Vector(t...), nil
	case []any:
		l := make(List, len(t))
		for i, item := range t {
			v, err := FromInterface(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l[i] = v
		}
		return l, nil
	case []string:
		l := make(List, len(t))
		for i, s := range t {
			l[i] = Text(s)
		}
		return l, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			v, err := FromInterface(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m.Set(k, v)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", x)
	}
}
