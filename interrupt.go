package jobsh

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// interrupted is the process-wide cancellation flag. It is the only mutable
// global shared across the scheduler: written by the interrupt handler and
// read by the scheduler between job groups.
var interrupted atomic.Bool

// Interrupt sets the cancellation flag.
func Interrupt() { interrupted.Store(true) }

// Interrupted reports whether an interrupt arrived since the last reset.
func Interrupted() bool { return interrupted.Load() }

// ResetInterrupt clears the cancellation flag, typically before each line.
func ResetInterrupt() { interrupted.Store(false) }

// NotifyInterrupt installs a SIGINT handler that sets the cancellation flag.
// The front end calls it once at startup; the returned function uninstalls
// the handler.
func NotifyInterrupt() (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sigChan:
				Interrupt()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
