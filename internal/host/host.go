package host

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

var (
	ErrUnknownCode      = errors.New("host: code not uploaded")
	ErrInsufficientGas  = errors.New("host: gas limit below instantiation cost")
	ErrSpawnRejected    = errors.New("host: spawn rejected")
	ErrAcknowledgeLost  = errors.New("host: acknowledgement lost")
	ErrCircuitOpen      = errors.New("host: spawn circuit open")
	ErrHostUnavailable  = errors.New("host: runtime unavailable")
	ErrMalformedReplyID = errors.New("host: malformed spawn reply")
)

// SpawnRequest asks the host to instantiate one child program
type SpawnRequest struct {
	CodeID   types.CodeID
	Payload  types.InitConfig
	GasLimit uint64
	Value    uint64
}

// Pending is an issued spawn awaiting the host acknowledgement
type Pending interface {
	Wait(ctx context.Context) (types.ActorAddress, error)
}

// Spawner issues spawn requests
type Spawner interface {
	Spawn(ctx context.Context, req SpawnRequest) (Pending, error)
}

// PendingFunc adapts a function to Pending
type PendingFunc func(ctx context.Context) (types.ActorAddress, error)

// Wait calls f(ctx)
func (f PendingFunc) Wait(ctx context.Context) (types.ActorAddress, error) {
	return f(ctx)
}

// Resolved returns a Pending that acknowledges immediately
func Resolved(addr types.ActorAddress) Pending {
	return PendingFunc(func(context.Context) (types.ActorAddress, error) {
		return addr, nil
	})
}

// Failed returns a Pending whose acknowledgement fails with err
func Failed(err error) Pending {
	return PendingFunc(func(context.Context) (types.ActorAddress, error) {
		return types.ActorAddress{}, err
	})
}
