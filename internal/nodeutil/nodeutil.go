// Package nodeutil holds yaml.v3 Node helpers shared by the loader and the
// dumper. Nothing here depends on the root package types.
package nodeutil

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Short forms of the tags in the yaml.org,2002 namespace.
const (
	NullTag      = "!!null"
	BoolTag      = "!!bool"
	StrTag       = "!!str"
	IntTag       = "!!int"
	FloatTag     = "!!float"
	TimestampTag = "!!timestamp"
	BinaryTag    = "!!binary"
	MergeTag     = "!!merge"
	MapTag       = "!!map"
	SeqTag       = "!!seq"
	OMapTag      = "!!omap"
	PairsTag     = "!!pairs"
	SetTag       = "!!set"
)

const longTagPrefix = "tag:yaml.org,2002:"

var safeTags = map[string]struct{}{
	NullTag:      {},
	BoolTag:      {},
	StrTag:       {},
	IntTag:       {},
	FloatTag:     {},
	TimestampTag: {},
	BinaryTag:    {},
	MergeTag:     {},
	MapTag:       {},
	SeqTag:       {},
	OMapTag:      {},
	PairsTag:     {},
	SetTag:       {},
	"!":          {},
}

// IsSafeTag reports whether tag belongs to the subset the safe loader accepts
// without an explicitly registered constructor.
func IsSafeTag(tag string) bool {
	_, ok := safeTags[ShortTag(tag)]
	return ok
}

// ShortTag rewrites "tag:yaml.org,2002:x" as "!!x". Other tags are returned
// unchanged.
func ShortTag(tag string) string {
	if rest, ok := strings.CutPrefix(tag, longTagPrefix); ok {
		return "!!" + rest
	}
	return tag
}

// Resolve returns the anchored node when n is an alias, otherwise n itself.
func Resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// Content unwraps a DocumentNode. It returns nil for an empty document.
func Content(n *yaml.Node) *yaml.Node {
	if n == nil || n.Kind != yaml.DocumentNode {
		return n
	}
	if len(n.Content) == 0 {
		return nil
	}
	return n.Content[0]
}

// IsMergeKey reports whether n is the "<<" merge key. Quoted "<<" is a
// plain string key and does not count.
func IsMergeKey(n *yaml.Node) bool {
	n = Resolve(n)
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == MergeTag
}

// IsExplicitlyTagged reports whether the tag of n was written in the input
// rather than resolved from the value.
func IsExplicitlyTagged(n *yaml.Node) bool {
	return n.Style&yaml.TaggedStyle != 0
}

// KindString returns a human-readable name for a node kind.
func KindString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
