package storage

import "fmt"

// Kind tags the shape of a Result.
type Kind int

const (
	KindSuccess Kind = iota
	KindValue
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindValue:
		return "Value"
	case KindFailure:
		return "Failure"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the outcome of one contract operation. Text holds the value for
// KindValue and the diagnostic for KindFailure; it is empty for KindSuccess.
// Results are comparable with ==.
type Result struct {
	Kind Kind
	Text string
}

// Success is the outcome of an operation with nothing to report.
func Success() Result { return Result{Kind: KindSuccess} }

// Value wraps a string returned by the store.
func Value(s string) Result { return Result{Kind: KindValue, Text: s} }

// Failure wraps a human readable diagnostic.
func Failure(msg string) Result { return Result{Kind: KindFailure, Text: msg} }

// Failuref is Failure with fmt.Sprintf formatting.
func Failuref(format string, args ...any) Result {
	return Failure(fmt.Sprintf(format, args...))
}

func (r Result) IsFailure() bool { return r.Kind == KindFailure }

func (r Result) String() string {
	if r.Kind == KindSuccess {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.Text)
}
