package emitter

import (
	"fmt"

	"github.com/signadot/yev/yamlerr"
)

// Error is returned by Emit and Flush. Exactly one of Engine and IO is set:
// IO holds the sink's error when a write failed, Engine the emitter's state
// otherwise.
type Error struct {
	Op     string
	Engine *yamlerr.Error
	IO     error
}

// Kind returns yamlerr.KindIO for sink failures and the engine's kind
// otherwise.
func (e *Error) Kind() yamlerr.Kind {
	if e.IO != nil {
		return yamlerr.KindIO
	}
	return e.Engine.Kind
}

func (e *Error) Error() string {
	if e.IO != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.IO)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Engine)
}

func (e *Error) Unwrap() error {
	if e.IO != nil {
		return e.IO
	}
	return e.Engine
}
