package common

import (
	"fmt"
	"io"
)

// Log is the compile state's "accumulated errors" from spec.md §3,
// reached for wherever the driver would otherwise need to thread an error
// slice by hand through every top-level. Errors accumulate across
// top-levels; nothing is ever removed (spec.md's "Lifecycle").
type Log struct {
	errs   []error
	traces []string
}

// Err records err, if non-nil, and reports whether anything was recorded
// — the same call doubles as the accumulate-and-check idiom used at every
// call site in the driver: `if log.Err(checkThing()) { return }`.
func (l *Log) Err(errs ...error) bool {
	recorded := false
	for _, err := range errs {
		if err != nil {
			l.errs = append(l.errs, err)
			recorded = true
		}
	}
	return recorded
}

func (l *Log) HasErrors() bool {
	return len(l.errs) > 0
}

func (l *Log) Errors() []error {
	return l.errs
}

// Trace records a line of non-error diagnostic output (e.g. captured
// subprocess output); it is printed by Flush alongside the errors.
func (l *Log) Trace(s string) {
	l.traces = append(l.traces, s)
}

// Flush prints every trace line followed by every recorded error to w.
func (l *Log) Flush(w io.Writer) {
	for _, t := range l.traces {
		fmt.Fprintln(w, t)
	}
	for _, err := range l.errs {
		fmt.Fprintln(w, err)
	}
}
