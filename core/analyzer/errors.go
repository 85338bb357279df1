package analyzer

import (
	"fmt"

	"github.com/adalundhe/nameguard/core/extract"
)

// InvalidThresholdError rejects thresholds outside (0, 1]. Raised before
// any extraction work begins.
type InvalidThresholdError struct {
	Value float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("threshold %v is outside (0, 1]", e.Value)
}

// Pipeline stages an element-level failure can occur in.
const (
	StageEmbedAlias = "embed alias"
	StageEmbedCode  = "embed code"
	StageScore      = "score"
)

// ElementError attaches the identity of the offending element to a failure,
// so no error ever surfaces anonymously.
type ElementError struct {
	Element extract.Element
	Stage   string
	Err     error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Element.Ref(), e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
