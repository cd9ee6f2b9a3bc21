package cleaner

import (
	"errors"
	"fmt"

	"github.com/huangsam/fitstar/schema"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports a present value that could not be coerced.
// Row is the 1-based data row of the concatenated table.
type ParseError struct {
	Metric schema.Metric
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d column %s: cannot parse %q: %v", e.Metric, e.Row, e.Column, e.Value, e.Err)
}

// Unwrap returns the underlying conversion error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
