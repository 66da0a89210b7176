package dispatch

import (
	"time"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// Spawn failure stages reported in Command.FailedStage
const (
	StageIssue       = "issue"
	StageAcknowledge = "acknowledge"
)

// Command describes one handled command
type Command struct {
	Sender  types.ActorAddress
	Action  types.FactoryAction
	Result  types.Result
	Elapsed time.Duration

	// FailedStage is set when a CreateProgram spawn failed
	FailedStage string

	// LiveCount is the size of the address index after the command
	LiveCount int
}

// Observer is notified after each reply is produced. Calls happen on the
// actor goroutine and must not block.
type Observer interface {
	CommandHandled(cmd Command)
	QueryServed(q types.Query, elapsed time.Duration)
}

type observers []Observer

// Observers fans notifications out to every non-nil observer
func Observers(list ...Observer) Observer {
	out := make(observers, 0, len(list))
	for _, o := range list {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (o observers) CommandHandled(cmd Command) {
	for _, obs := range o {
		obs.CommandHandled(cmd)
	}
}

func (o observers) QueryServed(q types.Query, elapsed time.Duration) {
	for _, obs := range o {
		obs.QueryServed(q, elapsed)
	}
}
