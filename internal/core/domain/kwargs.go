package domain

import (
	"iter"
	"strings"
)

// OutputKey is the named argument that declares a task's artifact.
const OutputKey = "output"

// Kwargs is an ordered set of named arguments. Names keep the position of
// their first assignment.
type Kwargs struct {
	names  []string
	values map[string]Value
}

// Set assigns v to name. Re-assigning an existing name keeps its position.
func (k *Kwargs) Set(name string, v Value) {
	if k.values == nil {
		k.values = make(map[string]Value)
	}
	if _, ok := k.values[name]; !ok {
		k.names = append(k.names, name)
	}
	k.values[name] = v
}

// Get returns the value stored under name.
func (k Kwargs) Get(name string) (Value, bool) {
	v, ok := k.values[name]
	return v, ok
}

// Len returns the number of named arguments.
func (k Kwargs) Len() int {
	return len(k.names)
}

// Names returns the argument names in insertion order.
func (k Kwargs) Names() []string {
	return append([]string(nil), k.names...)
}

// All iterates over the arguments in insertion order.
func (k Kwargs) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range k.names {
			if !yield(name, k.values[name]) {
				return
			}
		}
	}
}

// Filter returns a copy holding only the arguments keep accepts.
func (k Kwargs) Filter(keep func(name string, v Value) bool) Kwargs {
	var out Kwargs
	for name, v := range k.All() {
		if keep(name, v) {
			out.Set(name, v)
		}
	}
	return out
}

// Value returns the arguments as a mapping with string keys.
func (k Kwargs) Value() Value {
	entries := make([]Entry, 0, len(k.names))
	for name, v := range k.All() {
		entries = append(entries, Entry{Key: Scalar(name), Value: v})
	}
	return Map(entries...)
}

// String formats the arguments as name=value pairs.
func (k Kwargs) String() string {
	var b strings.Builder
	for i, name := range k.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString("=")
		k.values[name].format(&b)
	}
	return b.String()
}

func (k Kwargs) resolve() Kwargs {
	var out Kwargs
	for name, v := range k.All() {
		out.Set(name, v.resolve())
	}
	return out
}
