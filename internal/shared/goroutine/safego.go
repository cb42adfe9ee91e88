// Package goroutine supervises background goroutines.
package goroutine

import (
	"runtime/debug"

	"github.com/andar-inc/andar/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine and turns a panic into an error log
// carrying the goroutine name and stack, keeping the process alive.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer logPanic(log, name)
		fn()
	}()
}

func logPanic(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("background goroutine panicked",
			"name", name,
			"panic", r,
			"stack", string(debug.Stack()),
		)
	}
}
