package value

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping is an ordered string-keyed map. The zero value is not usable; call
// NewMapping.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// MappingOf builds a mapping from alternating keys and values, panicking on a
// malformed argument list. It is meant for literals in code and tests.
func MappingOf(kv ...any) *Mapping {
	if len(kv)%2 != 0 {
		panic("value.MappingOf: odd number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("value.MappingOf: key is not a string")
		}
		v, err := FromInterface(kv[i+1])
		if err != nil {
			panic("value.MappingOf: " + err.Error())
		}
		m.Set(k, v)
	}
	return m
}

func (*Mapping) Kind() Kind { return KindMapping }
func (*Mapping) sealed()    {}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Set stores v under key. An existing key keeps its position.
func (m *Mapping) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Delete removes key and reports whether it was present.
func (m *Mapping) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
	return true
}

// Clone copies the mapping and every nested mapping and list. Array and table
// buffers are shared.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	if m == nil {
		return out
	}
	for _, e := range m.entries {
		out.Set(e.Key, cloneValue(e.Value))
	}
	return out
}

func cloneValue(v Value) Value {
	switch t := v.(type) {
	case *Mapping:
		return t.Clone()
	case List:
		l := make(List, len(t))
		for i, item := range t {
			l[i] = cloneValue(item)
		}
		return l
	default:
		return v
	}
}
