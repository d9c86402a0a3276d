package contract

import "fmt"

// SchemaError reports missing or malformed input data. It is fatal for the
// whole run: no partial decision is emitted and no records are silently
// skipped. CI maps it to a distinct exit code so "bad input" is never
// confused with "blocked by policy".
type SchemaError struct {
	Column string // offending column(s); empty when the whole file is unusable
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
	return fmt.Sprintf("schema error in column %q: %s", e.Column, e.Reason)
}

// ModelLoadError reports a missing or incompatible model artifact. Fatal,
// with its own exit code so operators can tell a broken pipeline apart from
// a rejected input file.
type ModelLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ModelLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model load error for %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("model load error for %q: %s", e.Path, e.Reason)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// ComputationError reports a health formula given non-finite input. It is
// contained per group: the offending group is surfaced as an annotated
// "undefined" metric and the rest of the batch proceeds.
type ComputationError struct {
	Group  string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error for group %q: %s", e.Group, e.Reason)
}
