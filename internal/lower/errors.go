package lower

import (
	"errors"
	"fmt"
)

// ErrStructural is wrapped by every StructuralError.
var ErrStructural = errors.New("structural error")

// StructuralError reports an AST shape the builder cannot turn into a layer.
// It signals an internal invariant violation rather than bad user input.
type StructuralError struct {
	Layer  int // 0-based layer index, -1 when not tied to a layer
	Line   uint32
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	var msg string
	if e.Layer >= 0 {
		msg = fmt.Sprintf("%s: layer %d (line %d): %s", ErrStructural, e.Layer, e.Line, e.Reason)
	} else {
		msg = fmt.Sprintf("%s: %s", ErrStructural, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
