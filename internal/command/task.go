package command

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Go runs fn as a fire-and-forget task: its error or panic is logged under name and never
// reaches the caller.
func Go(log zerolog.Logger, name string, fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("task", name).Interface("panic", r).Msg("Fire-and-forget task panicked")
			}
		}()
		if err := fn(); err != nil {
			log.Warn().Err(err).Str("task", name).Msg("Fire-and-forget task failed")
		}
	}()
}

// Safe runs fn in the caller's goroutine and converts a panic into an error.
func Safe(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
