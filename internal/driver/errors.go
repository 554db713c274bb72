package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrValidatorUsed is returned when Run is called on a validator that already ran.
	ErrValidatorUsed = errors.New("validator already ran")
	// ErrSequenceConsumed is yielded when a selected path sequence is ranged a second time.
	ErrSequenceConsumed = errors.New("path sequence already consumed")
	// ErrNoEngine is returned when a validator has no parse engine.
	ErrNoEngine = errors.New("no parse engine configured")
)

// IOError reports a failure to stat, traverse, open or read a path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// EngineError reports an engine that returned an error or panicked.
// It is never downgraded to a per-file failure.
type EngineError struct {
	Path string
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("parse engine failed on %s: %v", e.Path, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// panicError carries a recovered engine panic value.
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
