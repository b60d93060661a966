package oyaml

import "io"

// The package-level functions use these dialects. They are never mutated;
// build a Dialect with New to register constructors or representers.
var (
	defaultDialect = New(Options{})
	safeDialect    = New(Options{Safe: true})
)

// Load parses the first document in data with the full dialect.
func Load(data []byte) (any, error) { return defaultDialect.Load(data) }

// SafeLoad parses the first document in data with the safe dialect.
func SafeLoad(data []byte) (any, error) { return safeDialect.Load(data) }

// LoadAll reads the documents of r lazily with the full dialect.
func LoadAll(r io.Reader) *Documents { return defaultDialect.LoadAll(r) }

// SafeLoadAll reads the documents of r lazily with the safe dialect.
func SafeLoadAll(r io.Reader) *Documents { return safeDialect.LoadAll(r) }

// Dump serialises v with the full dialect.
func Dump(v any) ([]byte, error) { return defaultDialect.Dump(v) }

// SafeDump serialises v with the safe dialect.
func SafeDump(v any) ([]byte, error) { return safeDialect.Dump(v) }

// DumpAll serialises docs as one stream with the full dialect.
func DumpAll(docs []any) ([]byte, error) { return defaultDialect.DumpAll(docs) }

// SafeDumpAll serialises docs as one stream with the safe dialect.
func SafeDumpAll(docs []any) ([]byte, error) { return safeDialect.DumpAll(docs) }
