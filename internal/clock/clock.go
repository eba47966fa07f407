// Package clock provides the wall clock used by the use cases.
package clock

import (
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type System struct{}

// compile-time check: System must satisfy port.Clock
var _ port.Clock = System{}

func New() System { return System{} }

func (System) Now() time.Time { return time.Now().UTC() }
