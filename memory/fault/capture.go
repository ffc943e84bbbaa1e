package fault

import "io"

type captured struct{ rec Record }

// Capture runs fn with a terminator that unwinds instead of exiting, and
// reports the fault fn raised, if any. Reports are discarded. It swaps
// package state, so it must not run concurrently with other faulting code.
func Capture(fn func()) (rec Record, faulted bool) {
	restoreOut := SetOutput(io.Discard)
	defer restoreOut()
	restoreTerm := SetTerminator(func(r Record) { panic(captured{r}) })
	defer restoreTerm()

	defer func() {
		if v := recover(); v != nil {
			c, ok := v.(captured)
			if !ok {
				panic(v)
			}
			rec, faulted = c.rec, true
		}
	}()
	fn()
	return Record{}, false
}
