package oyaml

import (
	"math"
	"reflect"
	"time"

	"github.com/google/go-cmp/cmp"
)

// Equal reports whether a and b hold the same document. Ordered and plain
// mappings compare equal when they carry the same pairs in any order, and
// integers compare by value regardless of their Go type.
func Equal(a, b any) bool {
	return cmp.Equal(normalize(a, false), normalize(b, false), exportAll)
}

// EqualOrdered is like Equal but ordered mappings must also agree on key
// order.
func EqualOrdered(a, b any) bool {
	return cmp.Equal(normalize(a, true), normalize(b, true), exportAll)
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Normalized forms. orderedForm keeps mapping order for EqualOrdered;
// omapForm keeps an OMap distinct from a plain sequence.
type (
	orderedForm []Pair
	omapForm    []Pair
)

func normalize(v any, ordered bool) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *OrderedMap:
		if t == nil {
			return nil
		}
		if ordered {
			out := make(orderedForm, len(t.entries))
			for i, p := range t.entries {
				out[i] = Pair{Key: normalize(p.Key, ordered), Value: normalize(p.Value, ordered)}
			}
			return out
		}
		out := make(map[any]any, len(t.entries))
		for _, p := range t.entries {
			out[normalize(p.Key, ordered)] = normalize(p.Value, ordered)
		}
		return out
	case OrderedMap:
		return normalize(&t, ordered)
	case OMap:
		out := make(omapForm, len(t))
		for i, p := range t {
			out[i] = Pair{Key: normalize(p.Key, ordered), Value: normalize(p.Value, ordered)}
		}
		return out
	case []byte, time.Time:
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u)
		}
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Map:
		if rv.IsNil() {
			return map[any]any{}
		}
		out := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[normalize(iter.Key().Interface(), ordered)] = normalize(iter.Value().Interface(), ordered)
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface(), ordered)
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface(), ordered)
	default:
		return v
	}
}
