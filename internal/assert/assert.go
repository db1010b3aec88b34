// Package assert provides debug-only invariant checks. On release
// builds T compiles to nothing; on -tags debug builds a failed check
// panics with the formatted message.
package assert

import "fmt"

func T(check bool, msg string, args ...any) {
	if modeDebug && !check {
		// Sprintf is done inside the assert because putting it as the argument to 'msg' blocks
		// the function from getting fully optimized out on a release build (and slower in general)
		panic("Assert failed: " + fmt.Sprintf(msg, args...))
	}
}
