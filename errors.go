package refs

import (
	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/refs/pkg/rc"
)

var (
	// ErrReleased reports a Close of a handle that was already consumed.
	ErrReleased = rc.ErrReleased
)

func IsReleased(err error) bool {
	return errors.Is(err, ErrReleased)
}
