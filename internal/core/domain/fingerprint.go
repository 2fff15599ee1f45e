package domain

import (
	"cmp"
	"crypto/sha256"
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
	"reflect"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Pair is a named value folded into a fingerprint.
type Pair struct {
	Name  string
	Value Value
}

func newDigest() hash.Hash {
	return sha256.New()
}

// HashUpdate folds each pair into h: the pair's name first, then a
// type-tagged encoding of its value. Identical logical inputs always produce
// identical byte streams, regardless of set or map iteration order.
func HashUpdate(h hash.Hash, pairs ...Pair) {
	for _, p := range pairs {
		writeField(h, p.Name)
		foldValue(h, p.Value)
	}
}

// HashOne returns the hex fingerprint of a single value.
func HashOne(v Value) string {
	h := newDigest()
	HashUpdate(h, Pair{Name: "hash1", Value: v})
	return hex.EncodeToString(h.Sum(nil))
}

func foldValue(h hash.Hash, v Value) {
	switch v.kind {
	case KindTask:
		writeField(h, "task")
		writeField(h, v.task.Fingerprint())
	case KindSequence:
		writeField(h, "seq")
		HashUpdate(h, enumerate(v.items)...)
	case KindSet:
		writeField(h, "set")
		sums := make([]Value, len(v.items))
		for i, item := range v.items {
			sums[i] = Scalar(HashOne(item))
		}
		slices.SortFunc(sums, func(a, b Value) int {
			return cmp.Compare(a.scalar.(string), b.scalar.(string))
		})
		HashUpdate(h, enumerate(sums)...)
	case KindMapping:
		writeField(h, "map")
		pairs := make([]Pair, len(v.entries))
		for i, e := range v.entries {
			pairs[i] = Pair{Name: HashOne(e.Key), Value: e.Value}
		}
		slices.SortStableFunc(pairs, func(a, b Pair) int {
			return cmp.Compare(a.Name, b.Name)
		})
		HashUpdate(h, pairs...)
	case KindArray:
		writeField(h, "array")
		writeField(h, v.array.dtype)
		writeField(h, fmt.Sprint(v.array.shape))
		writeBytes(h, v.array.data)
	case KindScalar:
		foldScalar(h, v.scalar)
	}
}

func enumerate(items []Value) []Pair {
	pairs := make([]Pair, len(items))
	for i, item := range items {
		pairs[i] = Pair{Name: strconv.Itoa(i), Value: item}
	}
	return pairs
}

//nolint:cyclop // type switch
func foldScalar(h hash.Hash, x any) {
	switch x := x.(type) {
	case nil:
		writeField(h, "none")
	case string:
		writeField(h, "str")
		writeField(h, x)
	case bool:
		writeField(h, "bool")
		writeField(h, strconv.FormatBool(x))
	case int:
		foldInt(h, int64(x))
	case int8:
		foldInt(h, int64(x))
	case int16:
		foldInt(h, int64(x))
	case int32:
		foldInt(h, int64(x))
	case int64:
		foldInt(h, x)
	case uint:
		foldUint(h, uint64(x))
	case uint8:
		foldUint(h, uint64(x))
	case uint16:
		foldUint(h, uint64(x))
	case uint32:
		foldUint(h, uint64(x))
	case uint64:
		foldUint(h, x)
	case float32:
		writeField(h, "float")
		writeField(h, strconv.FormatFloat(float64(x), 'g', -1, 32))
	case float64:
		writeField(h, "float")
		if math.IsNaN(x) {
			writeField(h, "NaN")
			return
		}
		writeField(h, strconv.FormatFloat(x, 'g', -1, 64))
	case []byte:
		writeField(h, "bytes")
		writeBytes(h, x)
	case Path:
		writeField(h, "path")
		writeField(h, x.Key())
	default:
		writeField(h, fmt.Sprintf("%T", x))
		data, err := yaml.Marshal(x)
		if err != nil || hidesState(reflect.TypeOf(x), map[reflect.Type]bool{}) {
			// yaml drops unexported and skipped fields.
			data = fmt.Appendf(data, "%#v", x)
		}
		writeBytes(h, data)
	}
}

var (
	yamlMarshaler = reflect.TypeFor[yaml.Marshaler]()
	textMarshaler = reflect.TypeFor[encoding.TextMarshaler]()
)

// hidesState reports whether values of t can carry state that yaml.Marshal
// does not serialize.
func hidesState(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	if t.Implements(yamlMarshaler) || t.Implements(textMarshaler) {
		return false
	}

	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return hidesState(t.Elem(), seen)
	case reflect.Map:
		return hidesState(t.Key(), seen) || hidesState(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("yaml") == "-" || hidesState(f.Type, seen) {
				return true
			}
		}
	}
	return false
}

func foldInt(h hash.Hash, x int64) {
	writeField(h, "int")
	writeField(h, strconv.FormatInt(x, 10))
}

func foldUint(h hash.Hash, x uint64) {
	writeField(h, "uint")
	writeField(h, strconv.FormatUint(x, 10))
}

// writeField writes a length-prefixed string so adjacent fields cannot run
// into each other.
func writeField(h hash.Hash, s string) {
	writeBytes(h, []byte(s))
}

func writeBytes(h hash.Hash, b []byte) {
	h.Write(binary.AppendUvarint(nil, uint64(len(b))))
	h.Write(b)
}
