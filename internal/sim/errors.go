package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/boatsim/internal/guidance"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid config")
	ErrInvalidState  = errors.New("sim: invalid state (NaN or Inf detected)")
	ErrEmptyPath     = guidance.ErrShortPath
)

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
