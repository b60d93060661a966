// Package oyaml loads YAML mappings as insertion-ordered maps and dumps them
// back in the same order. Parsing, emitting and scalar resolution are done by
// gopkg.in/yaml.v3; this package supplies the ordered data model and the
// constructor/representer tables on top of it.
//
// Every mapping node loads as an *OrderedMap. An *OrderedMap dumps exactly
// like a plain Go map holding the same pairs, except that its keys come out
// in insertion order:
//
//	v, err := oyaml.Load([]byte("{x: 1, z: 3, y: 2}"))
//	out, err := oyaml.Dump(v) // "{x: 1, z: 3, y: 2}\n"
//
// The package-level functions use two fixed dialects. The Safe variants only
// accept the standard YAML tags and refuse to dump types without a
// registered representer. For custom tags or types, build a Dialect:
//
//	d := oyaml.New(oyaml.Options{Safe: true, Logger: log})
//	d.RegisterConstructor("!env", envConstructor)
//	oyaml.RegisterRepresenterFor(d, representCelsius)
//
// Representers are looked up by the exact dynamic type of a value. A defined
// type or a struct embedding *OrderedMap does not inherit its representer.
package oyaml
