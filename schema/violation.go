package schema

import (
	"fmt"
	"strings"
)

// ViolationKind classifies one reported mismatch between data and
// schema.
type ViolationKind int

const (
	MissingRequired ViolationKind = iota
	TypeMismatch
	RangeCheckFailed
	NotInEnum
	PatternMismatch
	CrossFieldFailed
	UnsupportedShape
	DepthExceeded
)

func (k ViolationKind) String() string {
	s, ok := map[ViolationKind]string{
		MissingRequired:  "MissingRequired",
		TypeMismatch:     "TypeMismatch",
		RangeCheckFailed: "RangeCheckFailed",
		NotInEnum:        "NotInEnum",
		PatternMismatch:  "PatternMismatch",
		CrossFieldFailed: "CrossFieldFailed",
		UnsupportedShape: "UnsupportedShape",
		DepthExceeded:    "DepthExceeded",
	}[k]
	if ok {
		return s
	}
	return "<unknown violation kind>"
}

// Violation is a single reported mismatch. Violations are values, not
// errors: binding and validation walk the whole tree and accumulate
// every violation rather than stopping at the first.
type Violation struct {
	Path    string
	Kind    ViolationKind
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s at %q: %s", v.Kind, v.Path, v.Message)
}

// Violations is an ordered collection of violations.
type Violations []Violation

// Err converts a non-empty violation list into an error; an empty
// list yields nil.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return &ViolationsError{Violations: vs}
}

// ViolationsError wraps accumulated violations for callers that want
// a single error value.
type ViolationsError struct {
	Violations Violations
}

func (e *ViolationsError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("%d configuration violation(s): %s",
		len(e.Violations), strings.Join(msgs, "; "))
}
