// Package clock provides an injectable time source so billing periods and
// due dates stay deterministic in tests.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module provides the system clock via Fx.
var Module = fx.Provide(NewSystemClock)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
