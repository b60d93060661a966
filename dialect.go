package oyaml

import (
	"maps"
	"reflect"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/reoring/oyaml/internal/nodeutil"
)

// ConstructorFunc builds a value for a node carrying the tag it was
// registered for. Aliases are already resolved. Use c to build children.
type ConstructorFunc func(c *Constructor, n *yaml.Node) (any, error)

// RepresenterFunc builds the node for a value of the exact type it was
// registered for. Use r to represent children.
type RepresenterFunc func(r *Representer, v any) (*yaml.Node, error)

// Dialect is a configured loader and dumper: its options plus a table of
// constructors keyed by tag and a table of representers keyed by exact Go
// type. Registration affects only this Dialect.
//
// A Dialect may be used concurrently once registration is done; Register*
// calls are not synchronised.
type Dialect struct {
	opt          Options
	log          logr.Logger
	constructors map[string]ConstructorFunc
	representers map[reflect.Type]RepresenterFunc
}

// New returns a Dialect with the built-in constructors and representers.
func New(opt Options) *Dialect {
	opt = opt.withDefaults()
	d := &Dialect{
		opt: opt,
		log: opt.Logger.WithName("oyaml"),
		constructors: map[string]ConstructorFunc{
			nodeutil.OMapTag:      constructOMap,
			nodeutil.PairsTag:     constructOMap,
			nodeutil.SetTag:       constructSet,
			nodeutil.BinaryTag:    constructBinary,
		},
		representers: map[reflect.Type]RepresenterFunc{
			reflect.TypeFor[*OrderedMap](): RepresentMapping,
			reflect.TypeFor[OrderedMap]():  RepresentMapping,
			reflect.TypeFor[OMap]():        RepresentOMap,
			reflect.TypeFor[[]byte]():      representBinary,
			reflect.TypeFor[time.Time]():   representTime,
			reflect.TypeFor[*yaml.Node]():  representNode,
		},
	}
	return d
}

// Options returns the effective options.
func (d *Dialect) Options() Options { return d.opt }

// Safe reports whether d is a safe dialect.
func (d *Dialect) Safe() bool { return d.opt.Safe }

// Clone returns an independent copy of d, including its registrations.
func (d *Dialect) Clone() *Dialect {
	return &Dialect{
		opt:          d.opt,
		log:          d.log,
		constructors: maps.Clone(d.constructors),
		representers: maps.Clone(d.representers),
	}
}

// RegisterConstructor sets the constructor for tag ("!!x", "!local" or a
// full "tag:..." URI). A registered tag is accepted by safe dialects too.
// Untagged scalars carry their resolved tag, so a constructor for a
// standard tag such as "!!str" also builds mapping keys.
func (d *Dialect) RegisterConstructor(tag string, fn ConstructorFunc) {
	d.constructors[nodeutil.ShortTag(tag)] = fn
}

// RegisterRepresenter sets the representer for values whose dynamic type
// is exactly t. Types derived from t (defined types, structs embedding it)
// are not affected.
func (d *Dialect) RegisterRepresenter(t reflect.Type, fn RepresenterFunc) {
	d.representers[t] = fn
}

// RegisterRepresenterFor is RegisterRepresenter with a typed callback.
func RegisterRepresenterFor[T any](d *Dialect, fn func(r *Representer, v T) (*yaml.Node, error)) {
	d.RegisterRepresenter(reflect.TypeFor[T](), func(r *Representer, v any) (*yaml.Node, error) {
		return fn(r, v.(T))
	})
}

func (d *Dialect) newConstructor() *Constructor {
	return &Constructor{
		d:      d,
		built:  make(map[*yaml.Node]any),
		active: make(map[*yaml.Node]bool),
	}
}

func (d *Dialect) newRepresenter() *Representer {
	return &Representer{d: d, active: make(map[visit]bool)}
}
