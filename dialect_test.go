package oyaml_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"gopkg.in/yaml.v3"

	"github.com/reoring/oyaml"
)

// captureLogger records every log line; verbosity 1 includes the debug
// diagnostics.
func captureLogger() (logr.Logger, func() []string) {
	var (
		mu    sync.Mutex
		lines []string
	)
	l := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, prefix+" "+args)
	}, funcr.Options{Verbosity: 1})
	return l, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}

func containsLine(lines []string, sub string) bool {
	for _, l := range lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

type Celsius float64

func TestRegisterRepresenter(t *testing.T) {
	d := oyaml.New(oyaml.Options{Safe: true})
	oyaml.RegisterRepresenterFor(d, func(r *oyaml.Representer, v Celsius) (*yaml.Node, error) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!celsius", Value: fmt.Sprintf("%g", float64(v))}, nil
	})

	out, err := d.Dump(map[string]any{"temp": Celsius(21.5)})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if got, want := string(out), "{temp: !celsius 21.5}\n"; got != want {
		t.Fatalf("Dump = %q, want %q", got, want)
	}

	// The package-level safe dialect is untouched.
	if _, err := oyaml.SafeDump(Celsius(1)); err == nil {
		t.Fatalf("registration leaked into the package-level dialect")
	}
}

func TestRegisterRepresenterIsExactType(t *testing.T) {
	d := oyaml.New(oyaml.Options{Safe: true})
	d.RegisterRepresenter(reflect.TypeFor[*oyaml.OrderedMap](), oyaml.RepresentMapping)

	// Embedding the registered type does not inherit its representer.
	_, err := d.Dump(MyOrderedMap{oyaml.NewOrderedMap()})
	var re *oyaml.RepresenterError
	if !errors.As(err, &re) {
		t.Fatalf("want RepresenterError, got %T %v", err, err)
	}
	if re.Type != reflect.TypeFor[MyOrderedMap]() {
		t.Fatalf("error type = %v", re.Type)
	}

	oyaml.RegisterRepresenterFor(d, func(r *oyaml.Representer, v MyOrderedMap) (*yaml.Node, error) {
		return oyaml.RepresentMapping(r, v.OrderedMap)
	})
	out, err := d.Dump(MyOrderedMap{sample()})
	if err != nil {
		t.Fatalf("dump after registration: %v", err)
	}
	if got, want := string(out), "{x: 1, z: 3, y: 2}\n"; got != want {
		t.Fatalf("Dump = %q, want %q", got, want)
	}
}

func TestRegisterConstructor(t *testing.T) {
	d := oyaml.New(oyaml.Options{Safe: true})
	d.RegisterConstructor("!env", func(c *oyaml.Constructor, n *yaml.Node) (any, error) {
		return "ENV:" + n.Value, nil
	})
	v, err := d.Load([]byte("home: !env HOME\n"))
	if err != nil {
		t.Fatalf("registered tag should load in a safe dialect: %v", err)
	}
	if !oyaml.Equal(v, map[string]any{"home": "ENV:HOME"}) {
		t.Fatalf("got %v", v)
	}
}

func TestRegisterConstructorLongForm(t *testing.T) {
	d := oyaml.New(oyaml.Options{})
	d.RegisterConstructor("tag:yaml.org,2002:int", func(c *oyaml.Constructor, n *yaml.Node) (any, error) {
		v, err := c.ConstructScalar(n)
		if err != nil {
			return nil, err
		}
		return v.(int) * 10, nil
	})
	v, err := d.Load([]byte("a: 2\nb: x\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !oyaml.Equal(v, map[string]any{"a": 20, "b": "x"}) {
		t.Fatalf("got %v", v)
	}
}

func TestRegisteredStandardTagAppliesToKeys(t *testing.T) {
	d := oyaml.New(oyaml.Options{})
	d.RegisterConstructor("!!str", func(c *oyaml.Constructor, n *yaml.Node) (any, error) {
		return strings.ToUpper(n.Value), nil
	})
	v, err := d.Load([]byte("a: hi\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !oyaml.Equal(v, map[string]any{"A": "HI"}) {
		t.Fatalf("got %v", v)
	}
}

func TestClone(t *testing.T) {
	base := oyaml.New(oyaml.Options{Safe: true})
	clone := base.Clone()
	clone.RegisterConstructor("!only-clone", func(c *oyaml.Constructor, n *yaml.Node) (any, error) {
		return n.Value, nil
	})
	if _, err := clone.Load([]byte("!only-clone x")); err != nil {
		t.Fatalf("clone should accept its own tag: %v", err)
	}
	if _, err := base.Load([]byte("!only-clone x")); err == nil {
		t.Fatalf("registration on a clone leaked into its source")
	}
	if !clone.Safe() || clone.Options().Indent != 2 {
		t.Fatalf("clone lost options: %+v", clone.Options())
	}
}

func TestFlowStyleOptions(t *testing.T) {
	doc := oyaml.NewOrderedMap(
		oyaml.Pair{Key: "b", Value: oyaml.NewOrderedMap(oyaml.Pair{Key: "c", Value: 1})},
		oyaml.Pair{Key: "a", Value: 1},
	)
	cases := []struct {
		name string
		opt  oyaml.Options
		want string
	}{
		{"auto", oyaml.Options{}, "b: {c: 1}\na: 1\n"},
		{"never", oyaml.Options{FlowStyle: oyaml.FlowNever}, "b:\n  c: 1\na: 1\n"},
		{"always", oyaml.Options{FlowStyle: oyaml.FlowAlways}, "{b: {c: 1}, a: 1}\n"},
		{"indent", oyaml.Options{FlowStyle: oyaml.FlowNever, Indent: 4}, "b:\n    c: 1\na: 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := oyaml.New(tc.opt).Dump(doc)
			if err != nil {
				t.Fatalf("dump: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("Dump = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestLoggerUnknownTag(t *testing.T) {
	l, lines := captureLogger()
	d := oyaml.New(oyaml.Options{Logger: l})
	if _, err := d.Load([]byte("a: !custom x\n")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !containsLine(lines(), "no constructor for tag") {
		t.Fatalf("unknown tag not logged: %q", lines())
	}
}

func TestLoggerDuplicateKeyWarn(t *testing.T) {
	l, lines := captureLogger()
	d := oyaml.New(oyaml.Options{OnDuplicateKey: oyaml.Warn, Logger: l})
	v, err := d.Load([]byte("a: 1\na: 2\n"))
	if err != nil {
		t.Fatalf("warn should not fail the load: %v", err)
	}
	if !oyaml.Equal(v, map[string]any{"a": 2}) {
		t.Fatalf("last value should win, got %v", v)
	}
	if !containsLine(lines(), "duplicate mapping key") {
		t.Fatalf("duplicate key not logged: %q", lines())
	}
}

func TestSeverityString(t *testing.T) {
	for s, want := range map[oyaml.Severity]string{oyaml.Error: "error", oyaml.Warn: "warn", oyaml.Ignore: "ignore", 7: "unknown"} {
		if s.String() != want {
			t.Fatalf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
