// Package errs defines the error taxonomy shared by the analysis pipeline.
//
// The four sentinel markers classify failures by blast radius:
//
//   - ErrConfig: invalid configuration, fatal for the whole run
//   - ErrStructural: malformed transcript or contract violation, fatal for
//     one transcript, the rest of the batch proceeds
//   - ErrSchema: a model proposal references an unknown topic/orientation,
//     recorded as a rejected candidate, never aborts a segment
//   - ErrAnnotation: the external model call failed, the segment stays stale
//     and is retried on the next run
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConfig     = errors.New("config error")
	ErrStructural = errors.New("structural error")
	ErrSchema     = errors.New("schema error")
	ErrAnnotation = errors.New("annotation error")
)

// Config builds a configuration error. Config errors abort the run before any
// annotation call is made.
func Config(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Structural builds a structural error for one transcript.
func Structural(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

// Schema builds a per-proposal schema violation.
func Schema(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// Annotation wraps an external annotation failure. The cause is preserved for
// errors.Is/As inspection.
func Annotation(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrAnnotation, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrAnnotation, op, err)
}

// IsFatal reports whether an error should stop the whole run rather than a
// single transcript or proposal.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig)
}

// Describe returns the taxonomy class of an error for user-facing messages.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrStructural):
		return "structural"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrAnnotation):
		return "annotation"
	default:
		return "internal"
	}
}
