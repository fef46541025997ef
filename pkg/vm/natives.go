package vm

import (
	"time"

	"github.com/kristofer/ember/pkg/value"
)

// processStart is the instant clock() measures from.
var processStart = time.Now()

// nativeClock is ember's one built-in native function (spec §4.6): it
// returns the number of seconds elapsed since the process started, as a
// float — wall-clock timing inside ember programs, typically for
// benchmarking loops.
func nativeClock(_ []value.Value) value.Value {
	return value.Number(time.Since(processStart).Seconds())
}
