package oyaml

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

// Pair is one key/value entry of an ordered mapping.
type Pair struct {
	Key   any
	Value any
}

// OrderedMap is a mapping that iterates in insertion order. Loading YAML
// produces one *OrderedMap per mapping node, and dumping one renders exactly
// like a plain map with the same keys in the same order.
//
// Keys must be comparable; Set panics otherwise, like a Go map would.
// Unlike a Go map, all NaN keys are the same key.
// The zero value is an empty map ready to use.
type OrderedMap struct {
	entries []Pair
	index   map[any]int
}

// NewOrderedMap returns a map holding pairs in order. A repeated key keeps
// its first position and takes the last value.
func NewOrderedMap(pairs ...Pair) *OrderedMap {
	m := &OrderedMap{
		entries: make([]Pair, 0, len(pairs)),
		index:   make(map[any]int, len(pairs)),
	}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set stores value under key. An existing key keeps its position.
func (m *OrderedMap) Set(key, value any) {
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if i, ok := m.index[indexKey(key)]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[indexKey(key)] = len(m.entries)
	m.entries = append(m.entries, Pair{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key any) (any, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[indexKey(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *OrderedMap) Has(key any) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap) Delete(key any) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[indexKey(key)]
	if !ok {
		return false
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	delete(m.index, indexKey(key))
	for j := i; j < len(m.entries); j++ {
		m.index[indexKey(m.entries[j].Key)] = j
	}
	return true
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Clear removes every key.
func (m *OrderedMap) Clear() {
	m.entries = m.entries[:0]
	clear(m.index)
}

// Keys returns the keys in order.
func (m *OrderedMap) Keys() []any {
	keys := make([]any, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns the values in key order.
func (m *OrderedMap) Values() []any {
	values := make([]any, 0, m.Len())
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

// Pairs returns a copy of the entries in order.
func (m *OrderedMap) Pairs() []Pair {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// All iterates over the entries in order.
func (m *OrderedMap) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		if m == nil {
			return
		}
		for _, p := range m.entries {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (m *OrderedMap) Clone() *OrderedMap {
	if m == nil {
		return nil
	}
	return NewOrderedMap(m.entries...)
}

// Equal reports whether other holds the same pairs, ignoring order. other
// may be another *OrderedMap or any Go map; nested values compare the same
// way.
func (m *OrderedMap) Equal(other any) bool {
	return Equal(m, other)
}

// EqualOrdered is like Equal but also requires both sides to list their keys
// in the same order. A plain Go map has no order and never matches.
func (m *OrderedMap) EqualOrdered(other any) bool {
	return EqualOrdered(m, other)
}

func (m *OrderedMap) String() string {
	if m == nil {
		return "OrderedMap(nil)"
	}
	return fmt.Sprintf("OrderedMap%v", m.entries)
}

// MarshalYAML renders m as a plain mapping so that yaml.v3 users get the
// ordered output too.
func (m *OrderedMap) MarshalYAML() (any, error) {
	if m == nil {
		return nil, nil
	}
	return defaultDialect.newRepresenter().Represent(m)
}

// UnmarshalYAML replaces the content of m with the mapping in value, using
// the full dialect's constructors.
func (m *OrderedMap) UnmarshalYAML(value *yaml.Node) error {
	built, err := defaultDialect.newConstructor().ConstructMapping(value)
	if err != nil {
		return err
	}
	m.Clear()
	for _, p := range built.entries {
		m.Set(p.Key, p.Value)
	}
	return nil
}

// nanKey stands in for every NaN key in an index, since NaN never equals
// itself.
type nanKey struct{}

func indexKey(k any) any {
	switch f := k.(type) {
	case float64:
		if math.IsNaN(f) {
			return nanKey{}
		}
	case float32:
		if math.IsNaN(float64(f)) {
			return nanKey{}
		}
	}
	return k
}

// OMap is the value of an !!omap or !!pairs node: key/value pairs in the
// order written. Unlike OrderedMap it is a sequence and may repeat keys.
type OMap []Pair

// Get returns the value of the first pair whose key equals key.
func (o OMap) Get(key any) (any, bool) {
	for _, p := range o {
		if indexKey(p.Key) == indexKey(key) {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (o OMap) Keys() []any {
	keys := make([]any, len(o))
	for i, p := range o {
		keys[i] = p.Key
	}
	return keys
}

// Equal reports whether other is an OMap (or []Pair) with equal pairs in the
// same order.
func (o OMap) Equal(other any) bool {
	if p, ok := other.([]Pair); ok {
		other = OMap(p)
	}
	return Equal(o, other)
}

// OrderedMap converts o to an OrderedMap. Repeated keys keep their first
// position and take the last value.
func (o OMap) OrderedMap() *OrderedMap {
	return NewOrderedMap(o...)
}
