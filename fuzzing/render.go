//go:build !imapfuzz_debug

package fuzzing

import "fmt"

// Debug reports whether Render dumps full values.
const Debug = false

// Render summarizes both sides of a failed check. Build with the
// imapfuzz_debug tag to get full dumps and a diff instead.
func Render(expected, actual any) string {
	return fmt.Sprintf("expected %s, got %s", describe(expected), describe(actual))
}
