package manifest

// Kind classifies a manifest value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Mapping
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is one node of a manifest tree.
//
// Text holds "true"/"false" for Bool, a JSON number literal for Number, and
// the decoded string for String. Mapping fields keep source order.
type Value struct {
	Kind   Kind
	Text   string
	Fields []Field
	Items  []*Value
}

// Field is a single mapping entry.
type Field struct {
	Key   string
	Value *Value
}

// Get returns the value stored under key in a mapping.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Mapping {
		return nil, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys lists mapping keys in order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != Mapping {
		return nil
	}
	keys := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Equivalent reports whether a and b describe the same tree. Mapping key order
// is ignored; sequence order is not. Numbers compare by value.
func Equivalent(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Null:
		return true
	case Number:
		return numbersEqual(a.Text, b.Text)
	case Bool, String:
		return a.Text == b.Text
	case Sequence:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equivalent(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case Mapping:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for _, f := range a.Fields {
			other, ok := b.Get(f.Key)
			if !ok || !Equivalent(f.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// mappingBuilder collects fields in order. A repeated key keeps its first
// position and takes the latest value.
type mappingBuilder struct {
	fields []Field
	index  map[string]int
}

func newMappingBuilder(size int) *mappingBuilder {
	return &mappingBuilder{fields: make([]Field, 0, size), index: make(map[string]int, size)}
}

func (b *mappingBuilder) has(key string) bool {
	_, ok := b.index[key]
	return ok
}

func (b *mappingBuilder) set(key string, value *Value) {
	if pos, ok := b.index[key]; ok {
		b.fields[pos].Value = value
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, Field{Key: key, Value: value})
}

func (b *mappingBuilder) value() *Value {
	return &Value{Kind: Mapping, Fields: b.fields}
}
