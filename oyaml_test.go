package oyaml_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/reoring/oyaml"
)

func sample() *oyaml.OrderedMap {
	return oyaml.NewOrderedMap(
		oyaml.Pair{Key: "x", Value: 1},
		oyaml.Pair{Key: "z", Value: 3},
		oyaml.Pair{Key: "y", Value: 2},
	)
}

func TestDump(t *testing.T) {
	out, err := oyaml.Dump(sample())
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if got, want := string(out), "{x: 1, z: 3, y: 2}\n"; got != want {
		t.Fatalf("Dump = %q, want %q", got, want)
	}
}

func TestSafeDump(t *testing.T) {
	out, err := oyaml.SafeDump(sample())
	if err != nil {
		t.Fatalf("safe dump: %v", err)
	}
	if got, want := string(out), "{x: 1, z: 3, y: 2}\n"; got != want {
		t.Fatalf("SafeDump = %q, want %q", got, want)
	}
}

func TestDumpAll(t *testing.T) {
	out, err := oyaml.DumpAll([]any{sample(), map[string]any{}})
	if err != nil {
		t.Fatalf("dump all: %v", err)
	}
	if got, want := string(out), "{x: 1, z: 3, y: 2}\n--- {}\n"; got != want {
		t.Fatalf("DumpAll = %q, want %q", got, want)
	}
}

func TestSafeDumpAll(t *testing.T) {
	out, err := oyaml.SafeDumpAll([]any{sample(), map[string]any{}})
	if err != nil {
		t.Fatalf("safe dump all: %v", err)
	}
	if got, want := string(out), "{x: 1, z: 3, y: 2}\n--- {}\n"; got != want {
		t.Fatalf("SafeDumpAll = %q, want %q", got, want)
	}
}

func TestDumpAndSafeDumpMatch(t *testing.T) {
	plain := map[string]any{"x": 1, "z": 2, "y": 3}
	full, err := oyaml.Dump(plain)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	safe, err := oyaml.SafeDump(plain)
	if err != nil {
		t.Fatalf("safe dump: %v", err)
	}
	if string(full) != string(safe) {
		t.Fatalf("Dump %q != SafeDump %q", full, safe)
	}
	if got, want := string(full), "{x: 1, y: 3, z: 2}\n"; got != want {
		t.Fatalf("plain map should dump sorted: got %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	v, err := oyaml.Load([]byte("{x: 1, z: 3, y: 2}"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !oyaml.Equal(v, map[string]any{"x": 1, "z": 3, "y": 2}) {
		t.Fatalf("loaded %v does not equal the plain map", v)
	}
	m, ok := v.(*oyaml.OrderedMap)
	if !ok {
		t.Fatalf("want *OrderedMap, got %T", v)
	}
	if !oyaml.EqualOrdered(m.Keys(), []any{"x", "z", "y"}) {
		t.Fatalf("key order = %v, want [x z y]", m.Keys())
	}
	if !oyaml.EqualOrdered(m.Values(), []any{1, 3, 2}) {
		t.Fatalf("values = %v, want [1 3 2]", m.Values())
	}
}

func TestSafeLoad(t *testing.T) {
	v, err := oyaml.SafeLoad([]byte("{x: 1, z: 3, y: 2}"))
	if err != nil {
		t.Fatalf("safe load: %v", err)
	}
	if !sample().EqualOrdered(v) {
		t.Fatalf("safe load = %v, want ordered %v", v, sample())
	}
}

func TestLoadEmpty(t *testing.T) {
	v, err := oyaml.Load(nil)
	if err != nil || v != nil {
		t.Fatalf("empty input: v=%v err=%v", v, err)
	}
}

func TestLoadAll(t *testing.T) {
	docs := oyaml.LoadAll(strings.NewReader("{x: 1, z: 3, y: 2}\n--- {}\n"))
	all, err := docs.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 documents, got %d", len(all))
	}
	if !sample().EqualOrdered(all[0]) {
		t.Fatalf("first document = %v", all[0])
	}
	if !oyaml.Equal(all[1], map[string]any{}) {
		t.Fatalf("second document = %v, want empty mapping", all[1])
	}
	// Forward-only: nothing is produced again.
	if _, err := docs.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("exhausted stream should return io.EOF, got %v", err)
	}
	for range docs.All() {
		t.Fatalf("exhausted stream yielded a document")
	}
}

func TestLoadAllIsLazy(t *testing.T) {
	docs := oyaml.LoadAll(strings.NewReader("a: 1\n---\nb: [\n"))
	first, err := docs.Next()
	if err != nil {
		t.Fatalf("first document should load before the broken one is read: %v", err)
	}
	if !oyaml.Equal(first, map[string]any{"a": 1}) {
		t.Fatalf("first document = %v", first)
	}
	_, err = docs.Next()
	var pe *oyaml.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %T %v", err, err)
	}
	if _, again := docs.Next(); again != err {
		t.Fatalf("error should be sticky, got %v", again)
	}
}

func TestLoadsToOrderedMap(t *testing.T) {
	for name, load := range map[string]func([]byte) (any, error){"Load": oyaml.Load, "SafeLoad": oyaml.SafeLoad} {
		v, err := load([]byte("{x: 1, z: 3, y: 2}"))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, ok := v.(*oyaml.OrderedMap); !ok {
			t.Fatalf("%s produced %T, want *OrderedMap", name, v)
		}
	}
}

// MyOrderedMap derives from OrderedMap by embedding; it is not registered.
type MyOrderedMap struct {
	*oyaml.OrderedMap
}

func TestSubclassDump(t *testing.T) {
	data := MyOrderedMap{oyaml.NewOrderedMap(
		oyaml.Pair{Key: "x", Value: 1},
		oyaml.Pair{Key: "y", Value: 2},
	)}

	out, err := oyaml.Dump(data)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(string(out), "!!go/object:github.com/reoring/oyaml_test.MyOrderedMap") {
		t.Fatalf("unregistered type should carry an object tag, got %q", out)
	}

	_, err = oyaml.SafeDump(data)
	var re *oyaml.RepresenterError
	if !errors.As(err, &re) {
		t.Fatalf("want RepresenterError, got %T %v", err, err)
	}
	if !strings.Contains(err.Error(), "cannot represent an object") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAnchorsAndReferences(t *testing.T) {
	text := `
defaults:
  all: &all
    product: foo
  development: &development
    <<: *all
    profile: bar

development:
  platform:
    <<: *development
    host: baz
`
	want := map[string]any{
		"defaults": map[string]any{
			"all": map[string]any{
				"product": "foo",
			},
			"development": map[string]any{
				"product": "foo",
				"profile": "bar",
			},
		},
		"development": map[string]any{
			"platform": map[string]any{
				"host":    "baz",
				"product": "foo",
				"profile": "bar",
			},
		},
	}
	v, err := oyaml.Load([]byte(text))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !oyaml.Equal(v, want) {
		t.Fatalf("loaded %v, want %v", v, want)
	}

	dev, _ := v.(*oyaml.OrderedMap).Get("development")
	platform, _ := dev.(*oyaml.OrderedMap).Get("platform")
	if !oyaml.EqualOrdered(platform.(*oyaml.OrderedMap).Keys(), []any{"product", "profile", "host"}) {
		t.Fatalf("merged keys should sit where << was written, got %v", platform.(*oyaml.OrderedMap).Keys())
	}
}

func TestOMap(t *testing.T) {
	text := `
Bestiary: !!omap
  - aardvark: African pig-like ant eater. Ugly.
  - anteater: South-American ant eater. Two species.
  - anaconda: South-American constrictor snake. Scaly.
`
	want := map[string]any{
		"Bestiary": oyaml.OMap{
			{Key: "aardvark", Value: "African pig-like ant eater. Ugly."},
			{Key: "anteater", Value: "South-American ant eater. Two species."},
			{Key: "anaconda", Value: "South-American constrictor snake. Scaly."},
		},
	}
	v, err := oyaml.Load([]byte(text))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !oyaml.Equal(v, want) {
		t.Fatalf("loaded %v, want %v", v, want)
	}
}

func TestOMapFlowStyle(t *testing.T) {
	v, err := oyaml.Load([]byte("Numbers: !!omap [ one: 1, two: 2, three : 3 ]"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]any{"Numbers": oyaml.OMap{{Key: "one", Value: 1}, {Key: "two", Value: 2}, {Key: "three", Value: 3}}}
	if !oyaml.Equal(v, want) {
		t.Fatalf("loaded %v, want %v", v, want)
	}
	// An omap is a sequence, not a mapping.
	if oyaml.Equal(v, map[string]any{"Numbers": map[string]any{"one": 1, "two": 2, "three": 3}}) {
		t.Fatalf("omap must not compare equal to a mapping")
	}
}
