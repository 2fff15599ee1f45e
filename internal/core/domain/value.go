package domain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindScalar is any leaf value: strings, numbers, booleans, paths, bytes or nil.
	KindScalar Kind = iota
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is an ordered list of key/value entries.
	KindMapping
	// KindSet is an unordered collection; its fingerprint ignores element order.
	KindSet
	// KindArray is a homogeneous numeric array with a shape.
	KindArray
	// KindTask is a reference to another task. It resolves to that task's output.
	KindTask
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindSet:
		return "set"
	case KindArray:
		return "array"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// Value is a task argument. Values are immutable once built.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	entries []Entry
	array   *Array
	task    *Task
}

// Entry is a single key/value pair of a mapping.
type Entry struct {
	Key   Value
	Value Value
}

// Scalar wraps a leaf value.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Seq builds an ordered sequence.
func Seq(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// SetOf builds a set. Duplicates are kept as given; only fingerprinting treats
// the collection as unordered.
func SetOf(items ...Value) Value {
	return Value{kind: KindSet, items: append([]Value(nil), items...)}
}

// Map builds a mapping that preserves entry order.
func Map(entries ...Entry) Value {
	return Value{kind: KindMapping, entries: append([]Entry(nil), entries...)}
}

// Ref builds a reference to another task.
func Ref(t *Task) Value {
	return Value{kind: KindTask, task: t}
}

// From converts a native Go value into a Value.
// Tasks become references, slices become sequences, string-keyed maps become
// mappings sorted by key and numeric slices become one-dimensional arrays.
// Anything else is treated as a scalar.
//
//nolint:cyclop // type switch
func From(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case *Task:
		return Ref(x)
	case Kwargs:
		return x.Value()
	case []Value:
		return Seq(x...)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = From(e)
		}
		return Seq(items...)
	case []string:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = Scalar(e)
		}
		return Seq(items...)
	case []*Task:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = Ref(e)
		}
		return Seq(items...)
	case map[string]any:
		return fromStringMap(x)
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = e
		}
		return fromStringMap(m)
	case []float64:
		return mustArray(ArrayOf(x))
	case []float32:
		return mustArray(ArrayOf(x))
	case []int64:
		return mustArray(ArrayOf(x))
	case []int32:
		return mustArray(ArrayOf(x))
	default:
		return Scalar(v)
	}
}

func fromStringMap(m map[string]any) Value {
	keys := slices.Sorted(maps.Keys(m))
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: Scalar(k), Value: From(m[k])}
	}
	return Map(entries...)
}

// mustArray is only used for one-dimensional arrays, whose shape always matches.
func mustArray(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Interface returns the wrapped scalar, or nil for non-scalars.
func (v Value) Interface() any {
	return v.scalar
}

// Items returns the elements of a sequence or set.
func (v Value) Items() []Value {
	return v.items
}

// Entries returns the entries of a mapping.
func (v Value) Entries() []Entry {
	return v.entries
}

// Task returns the referenced task, or nil.
func (v Value) Task() *Task {
	return v.task
}

// Array returns the wrapped array, or nil.
func (v Value) Array() *Array {
	return v.array
}

// Path returns the value as a Path if it holds one.
func (v Value) Path() (Path, bool) {
	p, ok := v.scalar.(Path)
	return p, ok
}

// Lookup returns the value stored under a string key in a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	for _, e := range v.entries {
		if s, ok := e.Key.scalar.(string); ok && s == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Text returns the value as plain text. Strings and paths are returned
// verbatim, everything else uses its display form.
func (v Value) Text() string {
	switch x := v.scalar.(type) {
	case string:
		return x
	case Path:
		return x.String()
	default:
		return v.String()
	}
}

// String returns a display form of the value. Task references are shown as
// the referenced task's output.
func (v Value) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v Value) format(b *strings.Builder) {
	switch v.kind {
	case KindScalar:
		switch x := v.scalar.(type) {
		case nil:
			b.WriteString("null")
		case []byte:
			fmt.Fprintf(b, "%q", x)
		default:
			fmt.Fprint(b, x)
		}
	case KindTask:
		b.WriteString(v.task.Output().String())
	case KindSequence, KindSet:
		open, closing := "[", "]"
		if v.kind == KindSet {
			open, closing = "{", "}"
		}
		b.WriteString(open)
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.format(b)
		}
		b.WriteString(closing)
	case KindMapping:
		b.WriteString("{")
		for i, e := range v.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Key.format(b)
			b.WriteString(": ")
			e.Value.format(b)
		}
		b.WriteString("}")
	case KindArray:
		fmt.Fprintf(b, "array(%s, %v)", v.array.dtype, v.array.shape)
	}
}

// walk visits v depth-first in declared order and calls visit for every task
// reference it meets. The returned Value has the same shape as v with each
// reference replaced by what visit returned. Mapping keys are not visited.
// The walk stops as soon as visit reports false.
func (v Value) walk(visit func(*Task) (Value, bool)) (Value, bool) {
	switch v.kind {
	case KindTask:
		return visit(v.task)
	case KindSequence, KindSet:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			r, ok := item.walk(visit)
			if !ok {
				return Value{}, false
			}
			items[i] = r
		}
		return Value{kind: v.kind, items: items}, true
	case KindMapping:
		entries := make([]Entry, len(v.entries))
		for i, e := range v.entries {
			r, ok := e.Value.walk(visit)
			if !ok {
				return Value{}, false
			}
			entries[i] = Entry{Key: e.Key, Value: r}
		}
		return Value{kind: KindMapping, entries: entries}, true
	default:
		return v, true
	}
}

// resolve replaces every task reference with that task's output.
func (v Value) resolve() Value {
	r, _ := v.walk(func(t *Task) (Value, bool) {
		return Scalar(t.Output()), true
	})
	return r
}

// tasks yields the task references reachable from v.
func (v Value) tasks(yield func(*Task) bool) bool {
	_, ok := v.walk(func(t *Task) (Value, bool) {
		return Value{}, yield(t)
	})
	return ok
}

// Number is the set of element types an Array may hold.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Array is a homogeneous numeric array stored as little-endian bytes.
type Array struct {
	dtype string
	shape []int
	data  []byte
}

// ArrayOf builds an array value from data. Without a shape the array is
// one-dimensional.
func ArrayOf[T Number](data []T, shape ...int) (Value, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}

	size := 1
	for _, d := range shape {
		if d < 0 {
			return Value{}, zerr.With(zerr.Wrap(ErrInvalidArray, "negative dimension"), "shape", fmt.Sprint(shape))
		}
		size *= d
	}
	if size != len(data) {
		err := zerr.With(zerr.Wrap(ErrInvalidArray, "shape does not match data"), "shape", fmt.Sprint(shape))
		return Value{}, zerr.With(err, "len", len(data))
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return Value{}, zerr.Wrap(err, "failed to encode array")
	}

	arr := &Array{
		dtype: reflect.TypeFor[T]().Kind().String(),
		shape: append([]int(nil), shape...),
		data:  buf.Bytes(),
	}
	return Value{kind: KindArray, array: arr}, nil
}

// DType returns the element type name, e.g. "float64".
func (a *Array) DType() string {
	return a.dtype
}

// Shape returns a copy of the array's dimensions.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Bytes returns a copy of the raw little-endian backing bytes.
func (a *Array) Bytes() []byte {
	return append([]byte(nil), a.data...)
}
