package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyContract = errors.New("contract text is empty")
	ErrInvokerNotSet = errors.New("model invoker not set")
)

// UpstreamError reports a failure of an external collaborator (the model
// invoker or the text extractor). The original cause is preserved for
// diagnostics; the pipeline never retries at this layer.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ValidationError reports structurally invalid model output: wrong shape,
// a missing required field, or a field of the wrong type. Index is the
// offending record position, or -1 when the batch as a whole is malformed.
type ValidationError struct {
	Index   int
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "invalid analysis response: " + e.Reason
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("item at index %d missing fields: %s", e.Index, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("item at index %d: %s", e.Index, e.Reason)
}

// ComputationError reports an aggregation invariant violation. It should be
// unreachable given validated input; it exists so operators can tell bad
// model output apart from a bug in the analytics math.
type ComputationError struct {
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("analytics computation failed: %v", e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
