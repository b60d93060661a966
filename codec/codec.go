// Package codec adapts oyaml to the Marshal/Unmarshal codec shape used by
// encoding registries and HTTP frameworks.
package codec

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/oyaml"
)

// Codec marshals and unmarshals one wire format.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// YAML returns a codec backed by d. A nil d uses oyaml.New(oyaml.Options{}).
func YAML(d *oyaml.Dialect) Codec {
	if d == nil {
		d = oyaml.New(oyaml.Options{})
	}
	return &yamlCodec{d: d}
}

type yamlCodec struct {
	d *oyaml.Dialect
}

func (c *yamlCodec) ContentType() string { return "application/yaml" }

func (c *yamlCodec) Marshal(v any) ([]byte, error) { return c.d.Dump(v) }

// Unmarshal stores the ordered document into *any and *oyaml.OrderedMap
// targets. Any other target is decoded by yaml.v3 directly.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	switch out := v.(type) {
	case *any:
		doc, err := c.d.Load(data)
		if err != nil {
			return err
		}
		*out = doc
		return nil
	case *oyaml.OrderedMap:
		doc, err := c.d.Load(data)
		if err != nil {
			return err
		}
		return fill(out, doc)
	default:
		return yaml.Unmarshal(data, v)
	}
}

// JSON returns a codec backed by go-json that keeps object key order for
// *any and *oyaml.OrderedMap targets.
func JSON() Codec { return jsonCodec{} }

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error {
	switch out := v.(type) {
	case *any:
		doc, err := oyaml.DecodeJSON(data)
		if err != nil {
			return err
		}
		*out = doc
		return nil
	case *oyaml.OrderedMap:
		return out.UnmarshalJSON(data)
	default:
		return json.Unmarshal(data, v)
	}
}

func fill(dst *oyaml.OrderedMap, doc any) error {
	src, ok := doc.(*oyaml.OrderedMap)
	if !ok {
		if doc == nil {
			dst.Clear()
			return nil
		}
		return oyaml.ErrNotMapping
	}
	dst.Clear()
	for k, v := range src.All() {
		dst.Set(k, v)
	}
	return nil
}
