package value

// Equal reports whether a and b are structurally equal. Arrays compare shape
// and elements, tables compare column names and cells, mappings compare keys
// and values irrespective of order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return isNull(a) && isNull(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Scalar:
		y := b.(Scalar)
		if x.integer != y.integer {
			return false
		}
		if x.integer {
			return x.i == y.i
		}
		return x.f == y.f
	case Bool:
		return x == b.(Bool)
	case Text:
		return x == b.(Text)
	case Array:
		y := b.(Array)
		if len(x.Shape) != len(y.Shape) || len(x.Data) != len(y.Data) {
			return false
		}
		for i := range x.Shape {
			if x.Shape[i] != y.Shape[i] {
				return false
			}
		}
		for i := range x.Data {
			if x.Data[i] != y.Data[i] {
				return false
			}
		}
		return true
	case Table:
		y := b.(Table)
		if len(x.Columns) != len(y.Columns) {
			return false
		}
		for i, c := range x.Columns {
			d := y.Columns[i]
			if c.Name != d.Name || len(c.Cells) != len(d.Cells) {
				return false
			}
			for j := range c.Cells {
				if c.Cells[j] != d.Cells[j] {
					return false
				}
			}
		}
		return true
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		y := b.(*Mapping)
		if x.Len() != y.Len() {
			return false
		}
		for _, e := range x.entries {
			other, ok := y.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

func isNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
