package nodeutil

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlowStyle selects how collections are rendered.
type FlowStyle int

const (
	// FlowAuto renders a collection in flow style when every child is a
	// scalar, and in block style otherwise.
	FlowAuto FlowStyle = iota
	// FlowNever renders every collection in block style.
	FlowNever
	// FlowAlways renders every collection in flow style.
	FlowAlways
)

func (s FlowStyle) String() string {
	switch s {
	case FlowAuto:
		return "auto"
	case FlowNever:
		return "never"
	case FlowAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ApplyFlowStyle sets or clears yaml.FlowStyle on a mapping or sequence node
// according to s. Children must already be built.
func ApplyFlowStyle(n *yaml.Node, s FlowStyle) {
	if n.Kind != yaml.MappingNode && n.Kind != yaml.SequenceNode {
		return
	}
	flow := false
	switch s {
	case FlowAlways:
		flow = true
	case FlowNever:
		flow = false
	default:
		flow = allScalars(n.Content)
	}
	if flow {
		n.Style |= yaml.FlowStyle
	} else {
		n.Style &^= yaml.FlowStyle
	}
}

func allScalars(nodes []*yaml.Node) bool {
	for _, c := range nodes {
		if c.Kind != yaml.ScalarNode {
			return false
		}
	}
	return true
}

// PinFlowTags marks scalars inside flow collections whose text the emitter
// must quote there (a timestamp contains ':') as explicitly tagged, so the
// quoted text still loads as its original type.
func PinFlowTags(n *yaml.Node) {
	pinFlowTags(n, false)
}

func pinFlowTags(n *yaml.Node, flow bool) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode, yaml.SequenceNode:
		flow = flow || n.Style&yaml.FlowStyle != 0
		for _, c := range n.Content {
			pinFlowTags(c, flow)
		}
	case yaml.ScalarNode:
		if flow && needsPin(n) {
			n.Style |= yaml.TaggedStyle
		}
	}
}

func needsPin(n *yaml.Node) bool {
	switch ShortTag(n.Tag) {
	case "", "!", StrTag:
		return false
	}
	if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return false
	}
	return strings.ContainsAny(n.Value, ",[]{}:?#")
}

// Inline reports whether the emitter writes root on the line of a "---"
// marker: scalars that are not block literals, and flow collections.
func Inline(root *yaml.Node) bool {
	switch root.Kind {
	case yaml.ScalarNode:
		if root.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return false
		}
		return !strings.Contains(root.Value, "\n")
	case yaml.MappingNode, yaml.SequenceNode:
		return root.Style&yaml.FlowStyle != 0
	default:
		return false
	}
}

// Rendered is one emitted document.
type Rendered struct {
	Text   []byte
	Inline bool
}

// JoinDocuments concatenates documents into one stream. The first document
// carries no marker; every following one is introduced by "---", on the same
// line when the document is Inline.
func JoinDocuments(docs []Rendered) []byte {
	var buf bytes.Buffer
	for i, d := range docs {
		if i > 0 {
			if d.Inline {
				buf.WriteString("--- ")
			} else {
				buf.WriteString("---\n")
			}
		}
		buf.Write(d.Text)
		if len(d.Text) > 0 && d.Text[len(d.Text)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}
