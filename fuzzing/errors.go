package fuzzing

import (
	"fmt"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/imap"
)

// Properties a driver checks.
const (
	PropertyEqual       = "equal"
	PropertyUnchanged   = "input unchanged"
	PropertyStatic      = "fully owned"
	PropertyNoAlias     = "no alias"
	PropertyIdempotent  = "idempotent"
	PropertyIndependent = "independent of input"
	PropertyMoved       = "owned leaves moved"
)

// InvariantError reports a conversion that broke one of the checked
// properties. It is a defect, never an expected outcome.
type InvariantError struct {
	Driver   string
	Property string
	Detail   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s violated: %s", e.Driver, e.Property, e.Detail)
}

func violation(driver, property string, expected, actual any) *InvariantError {
	return &InvariantError{Driver: driver, Property: property, Detail: Render(expected, actual)}
}

// SkipError wraps a generation failure. The input did not describe a value,
// which is expected for most fuzzer input.
type SkipError struct {
	Driver string
	Err    error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("%s: skipped: %s", e.Driver, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// Is makes every SkipError match imapfuzz.ErrSkip.
func (e *SkipError) Is(target error) bool {
	return target == imapfuzz.ErrSkip
}

func describe(v any) string {
	if n, ok := v.(imap.Node); ok {
		return imap.TypeName(n)
	}
	return fmt.Sprint(v)
}
