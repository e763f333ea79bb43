package codec

import (
	"fmt"

	"github.com/uconfig/go-uconfig/format"
)

// SyntaxError reports malformed source bytes. Line/Offset carry the
// position when the underlying parser provides one; zero values mean
// unknown.
type SyntaxError struct {
	Format  format.Format
	Line    int
	Offset  int64
	Message string
	Err     error
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s syntax error at line %d: %s", e.Format, e.Line, e.Message)
	case e.Offset > 0:
		return fmt.Sprintf("%s syntax error at offset %d: %s", e.Format, e.Offset, e.Message)
	default:
		return fmt.Sprintf("%s syntax error: %s", e.Format, e.Message)
	}
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// UnsupportedShapeError reports a tree construct the target format
// cannot represent, naming the offending path.
type UnsupportedShapeError struct {
	Format  format.Format
	Path    string
	Message string
}

func (e *UnsupportedShapeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unsupported shape for %s at %q: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("unsupported shape for %s: %s", e.Format, e.Message)
}
