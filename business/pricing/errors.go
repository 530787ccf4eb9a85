package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPipelineDisabled is returned for every request after artifact
// loading failed at startup. There is no in-process recovery.
var ErrPipelineDisabled = errors.New("pricing pipeline disabled: model artifacts failed to load")

// InputError is a caller problem: a missing required field or an
// out-of-range numeric value. The message is safe to return verbatim.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid value for '%s': %s", e.Field, e.Reason)
}

// UnseenCategoryError is a caller problem: a categorical value outside
// the trained vocabulary. It carries the valid values so the caller can
// self-correct.
type UnseenCategoryError struct {
	Column string
	Value  string
	Valid  []string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("unseen label for '%s': '%s'. valid values: [%s]",
		e.Column, e.Value, strings.Join(e.Valid, ", "))
}

// ConfigError is a server problem: a missing artifact or a feature-shape
// mismatch against a fitted transform. Detail goes to logs, never to the
// caller.
type ConfigError struct {
	Stage string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pricing stage %s: %v", e.Stage, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err is something the caller can fix.
func IsClientError(err error) bool {
	var ie *InputError
	var ue *UnseenCategoryError
	return errors.As(err, &ie) || errors.As(err, &ue)
}
