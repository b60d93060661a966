package oyaml

import (
	"cmp"
	"encoding/base64"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/reoring/oyaml/internal/nodeutil"
)

// ObjectTagPrefix starts the tag the full dialect puts on values of
// unregistered named types, followed by "<import path>.<type name>".
const ObjectTagPrefix = "!!go/object:"

// Representer turns one value tree into nodes.
type Representer struct {
	d      *Dialect
	active map[visit]bool
}

// visit identifies a map, pointer or slice being represented. Slices also
// carry their length, since a shorter slice of the same array is a
// different value.
type visit struct {
	ptr uintptr
	len int
}

// Represent builds the node for v. Lookup is by exact dynamic type:
// registered types first, then predeclared scalars and unnamed composites
// (pointers, slices, arrays, maps). Anything else is an unregistered object.
func (r *Representer) Represent(v any) (*yaml.Node, error) {
	if v == nil {
		return nullNode(), nil
	}
	rv := reflect.ValueOf(v)
	t := rv.Type()
	if fn, ok := r.d.representers[t]; ok {
		return r.guard(rv, func() (*yaml.Node, error) { return fn(r, v) })
	}
	if t.PkgPath() != "" {
		return r.undefined(v)
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nullNode(), nil
		}
		return r.guard(rv, func() (*yaml.Node, error) { return r.Represent(rv.Elem().Interface()) })
	case reflect.String:
		return representString(r, v)
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return RepresentScalar(r, v)
	case reflect.Map:
		return r.guard(rv, func() (*yaml.Node, error) { return RepresentMapping(r, v) })
	case reflect.Slice:
		return r.guard(rv, func() (*yaml.Node, error) { return RepresentSequence(r, v) })
	case reflect.Array:
		return RepresentSequence(r, v)
	default:
		return r.undefined(v)
	}
}

// guard fails on reference cycles instead of recursing forever.
func (r *Representer) guard(rv reflect.Value, fn func() (*yaml.Node, error)) (*yaml.Node, error) {
	var key visit
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return fn()
		}
		key = visit{ptr: rv.Pointer()}
	case reflect.Slice:
		if rv.Len() == 0 {
			return fn()
		}
		key = visit{ptr: rv.Pointer(), len: rv.Len()}
	default:
		return fn()
	}
	if r.active[key] {
		return nil, &RepresenterError{Value: rv.Interface(), Type: rv.Type(), Problem: "found reference cycle"}
	}
	r.active[key] = true
	defer delete(r.active, key)
	return fn()
}

// undefined handles types with no representer. The safe dialect refuses
// them; the full dialect falls back to yaml.v3's reflective encoding under
// an object tag naming the type.
func (r *Representer) undefined(v any) (*yaml.Node, error) {
	rv := reflect.ValueOf(v)
	t := rv.Type()
	if r.d.opt.Safe {
		return nil, &RepresenterError{Value: v, Type: t}
	}
	r.d.log.V(1).Info("no representer for type, using generic object form", "type", t.String())
	n, err := r.objectPayload(rv)
	if err != nil {
		return nil, err
	}
	n.Tag = ObjectTagPrefix + typeName(t)
	n.Style |= yaml.TaggedStyle
	return n, nil
}

// objectPayload is the untagged body of an unregistered value. Types
// defined over OrderedMap keep their entries; everything else goes through
// yaml.v3 from an addressable copy, so marshalers with pointer receivers
// (including ones promoted from an embedded OrderedMap) are found.
func (r *Representer) objectPayload(rv reflect.Value) (*yaml.Node, error) {
	if om := reflect.TypeFor[OrderedMap](); rv.Type().ConvertibleTo(om) {
		return RepresentMapping(r, rv.Convert(om).Interface())
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	var n yaml.Node
	if err := n.Encode(p.Interface()); err != nil {
		return nil, &RepresenterError{Value: rv.Interface(), Type: rv.Type(), Err: err}
	}
	return &n, nil
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return typeName(t.Elem())
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: nodeutil.NullTag, Value: "null"}
}

// representString builds a !!str node and leaves quoting to the emitter,
// which quotes only text its resolver would read as another type. Invalid
// UTF-8 goes through yaml.v3's value encoder, which writes it as !!binary.
func representString(r *Representer, v any) (*yaml.Node, error) {
	s := reflect.ValueOf(v).String()
	if !utf8.ValidString(s) {
		return RepresentScalar(r, s)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: nodeutil.StrTag, Value: s}, nil
}

// representTime writes an RFC 3339 timestamp that loads back as time.Time.
func representTime(r *Representer, v any) (*yaml.Node, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   nodeutil.TimestampTag,
		Value: v.(time.Time).Format(time.RFC3339Nano),
	}, nil
}

// RepresentScalar delegates to yaml.v3 for the tag, text and quoting of a
// scalar value.
func RepresentScalar(r *Representer, v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, &RepresenterError{Value: v, Type: reflect.TypeOf(v), Err: err}
	}
	return &n, nil
}

// RepresentMapping renders a mapping without a tag. It is the representer
// for Go maps, *OrderedMap and OrderedMap alike, so an ordered map is
// indistinguishable from a plain one in the output. Ordered maps keep their
// order; Go maps are sorted by key.
func RepresentMapping(r *Representer, v any) (*yaml.Node, error) {
	var pairs []Pair
	switch m := v.(type) {
	case *OrderedMap:
		if m == nil {
			return nullNode(), nil
		}
		pairs = m.entries
	case OrderedMap:
		pairs = m.entries
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return nil, &RepresenterError{Value: v, Type: rv.Type(), Problem: "expected a mapping value"}
		}
		pairs = sortedPairs(rv)
	}

	n := &yaml.Node{Kind: yaml.MappingNode, Tag: nodeutil.MapTag, Content: make([]*yaml.Node, 0, 2*len(pairs))}
	for _, p := range pairs {
		kn, err := r.Represent(p.Key)
		if err != nil {
			return nil, err
		}
		vn, err := r.Represent(p.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, kn, vn)
	}
	nodeutil.ApplyFlowStyle(n, r.d.opt.FlowStyle)
	return n, nil
}

// RepresentSequence renders a slice or array.
func RepresentSequence(r *Representer, v any) (*yaml.Node, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &RepresenterError{Value: v, Type: rv.Type(), Problem: "expected a sequence value"}
	}
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: nodeutil.SeqTag, Content: make([]*yaml.Node, 0, rv.Len())}
	for i := range rv.Len() {
		item, err := r.Represent(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, item)
	}
	nodeutil.ApplyFlowStyle(n, r.d.opt.FlowStyle)
	return n, nil
}

// RepresentOMap renders an OMap as an !!omap sequence of one-pair mappings.
func RepresentOMap(r *Representer, v any) (*yaml.Node, error) {
	o := v.(OMap)
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: nodeutil.OMapTag, Content: make([]*yaml.Node, 0, len(o))}
	for _, p := range o {
		kn, err := r.Represent(p.Key)
		if err != nil {
			return nil, err
		}
		vn, err := r.Represent(p.Value)
		if err != nil {
			return nil, err
		}
		entry := &yaml.Node{Kind: yaml.MappingNode, Tag: nodeutil.MapTag, Content: []*yaml.Node{kn, vn}}
		nodeutil.ApplyFlowStyle(entry, r.d.opt.FlowStyle)
		n.Content = append(n.Content, entry)
	}
	nodeutil.ApplyFlowStyle(n, r.d.opt.FlowStyle)
	return n, nil
}

func representBinary(r *Representer, v any) (*yaml.Node, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   nodeutil.BinaryTag,
		Value: base64.StdEncoding.EncodeToString(v.([]byte)),
	}, nil
}

func representNode(r *Representer, v any) (*yaml.Node, error) {
	n := v.(*yaml.Node)
	if n == nil {
		return nullNode(), nil
	}
	if c := nodeutil.Content(n); c != n {
		if c == nil {
			return nullNode(), nil
		}
		return c, nil
	}
	return n, nil
}

// sortedPairs lists the entries of a Go map ordered by key: numbers, then
// booleans, then strings, then anything else by its printed form.
func sortedPairs(rv reflect.Value) []Pair {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
	}
	return pairs
}

func compareKeys(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 0:
		return cmp.Compare(numeric(a), numeric(b))
	case 1:
		return cmp.Compare(boolInt(a.Bool()), boolInt(b.Bool()))
	case 2:
		return strings.Compare(a.String(), b.String())
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func keyRank(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return 0
	case reflect.Bool:
		return 1
	case reflect.String:
		return 2
	default:
		return 3
	}
}

func numeric(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
