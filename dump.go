package oyaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reoring/oyaml/internal/nodeutil"
)

// Node returns the node d would emit for v.
func (d *Dialect) Node(v any) (*yaml.Node, error) {
	return d.newRepresenter().Represent(v)
}

// Dump serialises v as one YAML document.
func (d *Dialect) Dump(v any) ([]byte, error) {
	n, err := d.Node(v)
	if err != nil {
		return nil, err
	}
	return d.emit(n)
}

// DumpAll serialises docs as a "---" separated stream.
func (d *Dialect) DumpAll(docs []any) ([]byte, error) {
	rendered := make([]nodeutil.Rendered, 0, len(docs))
	for i, v := range docs {
		n, err := d.Node(v)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		text, err := d.emit(n)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		rendered = append(rendered, nodeutil.Rendered{Text: text, Inline: nodeutil.Inline(n)})
	}
	return nodeutil.JoinDocuments(rendered), nil
}

func (d *Dialect) emit(n *yaml.Node) ([]byte, error) {
	nodeutil.PinFlowTags(n)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(d.opt.Indent)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("oyaml: emit: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("oyaml: emit: %w", err)
	}
	return buf.Bytes(), nil
}
