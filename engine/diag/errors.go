package diag

import (
	"errors"
	"fmt"
	"strings"
)

// WarningMarker tags a diagnostic message as a non-fatal warning.
const WarningMarker = "#warning"

// Kind classifies a script diagnostic.
type Kind int

const (
	// Syntax: unknown command, wrong argument count, unknown entity type.
	Syntax Kind = iota + 1
	// Binding: unknown or duplicate named argument, mixed argument styles.
	Binding
	// Resolution: unknown entity name, malformed integer.
	Resolution
	// Domain: an interaction that cannot be constructed.
	Domain
	// Apply: a well-formed interaction that is illegal when applied. Fatal.
	Apply
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Binding:
		return "binding"
	case Resolution:
		return "resolution"
	case Domain:
		return "domain"
	case Apply:
		return "apply"
	default:
		return "unknown"
	}
}

// Error is a line-tagged script diagnostic.
type Error struct {
	Kind       Kind
	Line       int // 1-based; 0 when not yet attributed to a line
	Msg        string
	Suggestion string
	Warning    bool
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "[line %d] ", e.Line)
	}
	b.WriteString(e.Msg)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean '%s'?)", e.Suggestion)
	}
	if e.Warning {
		b.WriteString(" " + WarningMarker)
	}
	return b.String()
}

// Errorf builds an Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning. Warnings never fail a compilation.
func Warnf(format string, args ...any) *Error {
	return &Error{Kind: Domain, Msg: fmt.Sprintf(format, args...), Warning: true}
}

// Suggest fills Suggestion with the nearest candidate, if any clears threshold.
func (e *Error) Suggest(query string, candidates []string, threshold int) *Error {
	if s, ok := FindNearest(query, candidates, threshold); ok {
		e.Suggestion = s
	}
	return e
}

// At sets the line number and returns e.
func (e *Error) At(line int) *Error {
	e.Line = line
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsWarning reports whether msg carries the warning marker.
func IsWarning(msg string) bool {
	return strings.Contains(msg, WarningMarker)
}
