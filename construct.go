package oyaml

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/oyaml/internal/nodeutil"
)

// Constructor turns the nodes of one document into values. Every mapping
// becomes an *OrderedMap; a node reached through several aliases is built
// once and shared.
type Constructor struct {
	d      *Dialect
	built  map[*yaml.Node]any
	active map[*yaml.Node]bool
}

// Construct builds the value of n.
func (c *Constructor) Construct(n *yaml.Node) (any, error) {
	n = nodeutil.Resolve(n)
	if n == nil {
		return nil, nil
	}
	if n.Kind == yaml.AliasNode {
		return nil, c.errorf(n, "found undefined alias")
	}
	if v, ok := c.built[n]; ok {
		return v, nil
	}
	if c.active[n] {
		return nil, c.errorf(n, "found recursive alias &%s", n.Anchor)
	}
	c.active[n] = true
	defer delete(c.active, n)

	v, err := c.dispatch(n)
	if err != nil {
		return nil, err
	}
	if n.Anchor != "" {
		c.built[n] = v
	}
	return v, nil
}

func (c *Constructor) dispatch(n *yaml.Node) (any, error) {
	if n.Kind == yaml.DocumentNode {
		return c.Construct(nodeutil.Content(n))
	}
	tag := n.ShortTag()
	if fn, ok := c.d.constructors[tag]; ok {
		return fn(c, n)
	}
	if !nodeutil.IsSafeTag(tag) {
		if c.d.opt.Safe {
			return nil, &ConstructorError{
				Problem: fmt.Sprintf("could not determine a constructor for the tag %q", n.Tag),
				Tag:     n.Tag,
				Mark:    markOf(n),
			}
		}
		c.d.log.V(1).Info("no constructor for tag, building by node kind", "tag", n.Tag, "kind", nodeutil.KindString(n.Kind), "line", n.Line)
	}
	switch n.Kind {
	case yaml.MappingNode:
		return c.ConstructMapping(n)
	case yaml.SequenceNode:
		return c.ConstructSequence(n)
	case yaml.ScalarNode:
		return c.ConstructScalar(n)
	default:
		return nil, c.errorf(n, "unexpected %s node", nodeutil.KindString(n.Kind))
	}
}

// ConstructScalar resolves a scalar the way yaml.v3 does when decoding into
// an interface value.
func (c *Constructor) ConstructScalar(n *yaml.Node) (any, error) {
	n = nodeutil.Resolve(n)
	if n.Kind != yaml.ScalarNode {
		return nil, c.errorf(n, "expected a scalar node, but found %s", nodeutil.KindString(n.Kind))
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, &ConstructorError{Problem: "cannot construct scalar", Tag: n.Tag, Mark: markOf(n), Err: err}
	}
	return v, nil
}

// ConstructSequence builds a []any from a sequence node.
func (c *Constructor) ConstructSequence(n *yaml.Node) ([]any, error) {
	n = nodeutil.Resolve(n)
	if n.Kind != yaml.SequenceNode {
		return nil, c.errorf(n, "expected a sequence node, but found %s", nodeutil.KindString(n.Kind))
	}
	out := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		v, err := c.Construct(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type mappingEntry struct {
	key       any
	keyNode   *yaml.Node
	valueNode *yaml.Node
	merge     bool
}

// ConstructMapping builds an *OrderedMap holding the pairs of n in document
// order. Merge keys ("<<") insert the keys of their sources at the position
// of the merge key; explicit keys always win, and among several sources the
// first listed wins.
func (c *Constructor) ConstructMapping(n *yaml.Node) (*OrderedMap, error) {
	n = nodeutil.Resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		kind := "nothing"
		if n != nil {
			kind = nodeutil.KindString(n.Kind)
		}
		return nil, &ConstructorError{Problem: "expected a mapping node, but found " + kind, Mark: markOf(n), Err: ErrNotMapping}
	}

	entries := make([]mappingEntry, 0, len(n.Content)/2)
	explicit := make(map[any]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if nodeutil.IsMergeKey(kn) {
			entries = append(entries, mappingEntry{keyNode: kn, valueNode: vn, merge: true})
			continue
		}
		key, err := c.constructKey(kn)
		if err != nil {
			return nil, err
		}
		if first, dup := explicit[indexKey(key)]; dup {
			if err := c.duplicateKey(key, first, kn); err != nil {
				return nil, err
			}
		} else {
			explicit[indexKey(key)] = kn
		}
		entries = append(entries, mappingEntry{key: key, keyNode: kn, valueNode: vn})
	}

	m := NewOrderedMap()
	for _, e := range entries {
		if e.merge {
			if err := c.merge(m, explicit, e.valueNode); err != nil {
				return nil, err
			}
			continue
		}
		v, err := c.Construct(e.valueNode)
		if err != nil {
			return nil, err
		}
		m.Set(e.key, v)
	}
	return m, nil
}

func (c *Constructor) constructKey(kn *yaml.Node) (any, error) {
	resolved := nodeutil.Resolve(kn)
	if resolved.Kind != yaml.ScalarNode {
		return nil, c.errorf(kn, "found unhashable key (%s)", nodeutil.KindString(resolved.Kind))
	}
	key, err := c.Construct(kn)
	if err != nil {
		return nil, err
	}
	if key != nil && !reflect.TypeOf(key).Comparable() {
		return nil, c.errorf(kn, "found unhashable key (%T)", key)
	}
	return key, nil
}

func (c *Constructor) duplicateKey(key any, first, again *yaml.Node) error {
	switch c.d.opt.OnDuplicateKey {
	case Ignore:
		return nil
	case Warn:
		c.d.log.Info("duplicate mapping key, last value wins", "key", key, "line", again.Line, "firstLine", first.Line)
		return nil
	default:
		return &DuplicateKeyError{
			Key:       fmt.Sprint(key),
			FirstLine: first.Line,
			FirstCol:  first.Column,
			Line:      again.Line,
			Col:       again.Column,
		}
	}
}

func (c *Constructor) merge(m *OrderedMap, explicit map[any]*yaml.Node, vn *yaml.Node) error {
	sources, err := c.mergeSources(vn)
	if err != nil {
		return err
	}
	for _, src := range sources {
		for _, p := range src.entries {
			if _, ok := explicit[indexKey(p.Key)]; ok {
				continue
			}
			if m.Has(p.Key) {
				continue
			}
			m.Set(p.Key, p.Value)
		}
	}
	return nil
}

func (c *Constructor) mergeSources(vn *yaml.Node) ([]*OrderedMap, error) {
	resolved := nodeutil.Resolve(vn)
	var items []*yaml.Node
	switch resolved.Kind {
	case yaml.MappingNode:
		items = []*yaml.Node{vn}
	case yaml.SequenceNode:
		items = resolved.Content
	default:
		return nil, c.errorf(vn, "expected a mapping or list of mappings for merging, but found %s", nodeutil.KindString(resolved.Kind))
	}
	sources := make([]*OrderedMap, 0, len(items))
	for _, item := range items {
		if r := nodeutil.Resolve(item); r.Kind != yaml.MappingNode {
			return nil, c.errorf(item, "expected a mapping for merging, but found %s", nodeutil.KindString(r.Kind))
		}
		v, err := c.Construct(item)
		if err != nil {
			return nil, err
		}
		src, ok := v.(*OrderedMap)
		if !ok {
			return nil, c.errorf(item, "expected a mapping for merging, but constructed %T", v)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (c *Constructor) errorf(n *yaml.Node, format string, args ...any) *ConstructorError {
	e := &ConstructorError{Problem: fmt.Sprintf(format, args...), Mark: markOf(n)}
	if n != nil {
		e.Tag = n.Tag
	}
	return e
}

func markOf(n *yaml.Node) Mark {
	if n == nil {
		return Mark{}
	}
	return Mark{Line: n.Line, Column: n.Column}
}

// Built-in constructors for the tags the kind-based path cannot express.

func constructOMap(c *Constructor, n *yaml.Node) (any, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, c.errorf(n, "while constructing an ordered map: expected a sequence, but found %s", nodeutil.KindString(n.Kind))
	}
	out := make(OMap, 0, len(n.Content))
	for _, item := range n.Content {
		entry := nodeutil.Resolve(item)
		if entry.Kind != yaml.MappingNode || len(entry.Content) != 2 {
			return nil, c.errorf(item, "while constructing an ordered map: expected a mapping of length 1, but found %s", nodeutil.KindString(entry.Kind))
		}
		key, err := c.constructKey(entry.Content[0])
		if err != nil {
			return nil, err
		}
		value, err := c.Construct(entry.Content[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	return out, nil
}

func constructSet(c *Constructor, n *yaml.Node) (any, error) {
	if n.Kind != yaml.MappingNode {
		return nil, c.errorf(n, "while constructing a set: expected a mapping, but found %s", nodeutil.KindString(n.Kind))
	}
	set := NewOrderedMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, err := c.constructKey(n.Content[i])
		if err != nil {
			return nil, err
		}
		set.Set(key, nil)
	}
	return set, nil
}

func constructBinary(c *Constructor, n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, c.errorf(n, "while constructing binary data: expected a scalar, but found %s", nodeutil.KindString(n.Kind))
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
	if err != nil {
		return nil, &ConstructorError{Problem: "failed to decode base64 data", Tag: n.Tag, Mark: markOf(n), Err: err}
	}
	return data, nil
}
