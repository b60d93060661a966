package oyaml

import (
	"github.com/go-logr/logr"

	"github.com/reoring/oyaml/internal/nodeutil"
)

// FlowStyle selects how collections are laid out on dump.
type FlowStyle = nodeutil.FlowStyle

const (
	FlowAuto   FlowStyle = nodeutil.FlowAuto   // Flow style for collections holding only scalars.
	FlowNever  FlowStyle = nodeutil.FlowNever  // Block style everywhere.
	FlowAlways FlowStyle = nodeutil.FlowAlways // Flow style everywhere.
)

// Severity expresses how a problem found while loading is handled.
type Severity int

const (
	Error  Severity = iota // Fail the load.
	Warn                   // Log and keep going.
	Ignore                 // Keep going silently.
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

const defaultIndent = 2

// Options configures a Dialect. The zero value is the full (non-safe) dialect
// with default settings.
type Options struct {
	// Safe restricts loading to the standard tag set plus registered
	// constructors, and makes dumping unregistered named types an error.
	Safe bool
	// Indent is the number of spaces per nesting level (default 2).
	Indent int
	// FlowStyle controls collection layout on dump (default FlowAuto).
	FlowStyle FlowStyle
	// OnDuplicateKey decides what a repeated mapping key does. With Warn or
	// Ignore the last value wins and the key keeps its first position.
	OnDuplicateKey Severity
	// Logger receives diagnostics. The zero Logger discards everything.
	Logger logr.Logger
}

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = defaultIndent
	}
	if o.Logger.GetSink() == nil {
		o.Logger = logr.Discard()
	}
	return o
}
