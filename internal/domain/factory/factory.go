package factory

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProgramFactory/internal/host"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

var errCreationAwaited = errors.New("creation already awaited")

// Factory applies the factory transitions to a State
type Factory struct {
	state   *State
	spawner host.Spawner
	logger  *zap.Logger
}

// New creates a factory over state, spawning through spawner
func New(state *State, spawner host.Spawner, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		state:   state,
		spawner: spawner,
		logger:  logger.Named(logging.ComponentFactory),
	}
}

// State returns the state the factory mutates
func (f *Factory) State() *State {
	return f.state
}

// Creation is an issued spawn. Its state effects happen in Await, and only
// when the host acknowledges with an address.
type Creation struct {
	factory *Factory
	sender  types.ActorAddress
	config  types.InitConfig
	pending host.Pending
	awaited bool
}

// StartCreateProgram issues the spawn of a child program from the current
// code template. Nothing is mutated.
func (f *Factory) StartCreateProgram(ctx context.Context, sender types.ActorAddress, config types.InitConfig) (*Creation, error) {
	pending, err := f.spawner.Spawn(ctx, host.SpawnRequest{
		CodeID:   f.state.codeID,
		Payload:  config.Clone(),
		GasLimit: f.state.gasForProgram,
		Value:    0,
	})
	if err != nil {
		f.logger.Warn("Spawn request failed", zap.String("sender", sender.String()), zap.Error(err))
		return nil, types.InitFailure(err)
	}
	return &Creation{factory: f, sender: sender, config: config, pending: pending}, nil
}

// Await suspends until the host acknowledges the spawn, then issues the
// next id and records the program under the sender.
func (c *Creation) Await(ctx context.Context) (types.FactoryEvent, error) {
	if c.awaited {
		return nil, types.InitFailure(errCreationAwaited)
	}
	c.awaited = true

	f := c.factory
	address, err := c.pending.Wait(ctx)
	if err != nil {
		f.logger.Warn("Spawn acknowledgement failed", zap.String("sender", c.sender.String()), zap.Error(err))
		return nil, types.InitFailure(err)
	}

	s := f.state
	if s.number < math.MaxUint64 {
		s.number++
	}
	if _, exists := s.idToAddress[s.number]; !exists {
		s.idToAddress[s.number] = address
	}
	s.record(c.sender, types.RegistryEntry{ID: s.number, Record: types.RecordFrom(c.config)})

	f.logger.Info("Program created",
		zap.Uint64("id", uint64(s.number)),
		zap.String("address", address.String()),
		zap.String("creator", c.sender.String()),
	)

	return types.ProgramCreated{
		ID:         s.number,
		Address:    address,
		InitConfig: c.config,
	}, nil
}

// CreateProgram spawns a child program and records it. Any caller may
// create programs.
func (f *Factory) CreateProgram(ctx context.Context, sender types.ActorAddress, config types.InitConfig) (types.FactoryEvent, error) {
	creation, err := f.StartCreateProgram(ctx, sender, config)
	if err != nil {
		return nil, err
	}
	return creation.Await(ctx)
}

// UpdateGasProgram replaces the gas budget of future spawns
func (f *Factory) UpdateGasProgram(sender types.ActorAddress, gas uint64) (types.FactoryEvent, error) {
	if !f.state.IsAdmin(sender) {
		return nil, types.ErrUnauthorized
	}
	f.state.gasForProgram = gas
	return types.GasUpdatedSuccessfully{UpdatedBy: sender, NewGasAmount: gas}, nil
}

// CodeIDUpdate replaces the code template of future spawns
func (f *Factory) CodeIDUpdate(sender types.ActorAddress, code types.CodeID) (types.FactoryEvent, error) {
	if !f.state.IsAdmin(sender) {
		return nil, types.ErrUnauthorized
	}
	f.state.codeID = code
	return types.CodeIDUpdatedSuccessfully{UpdatedBy: sender, NewCodeID: code}, nil
}

// AddAdmin appends an admin. Duplicates are kept.
func (f *Factory) AddAdmin(sender types.ActorAddress, admin types.ActorAddress) (types.FactoryEvent, error) {
	if !f.state.IsAdmin(sender) {
		return nil, types.ErrUnauthorized
	}
	f.state.admins = append(f.state.admins, admin)
	return types.AdminAdded{UpdatedBy: sender, AdminActorID: admin}, nil
}

// RemoveRegistry deletes a program from the address index, then from the
// first creator history holding it. When no history holds the id the
// address mapping stays removed and IdNotFound is returned.
func (f *Factory) RemoveRegistry(sender types.ActorAddress, id types.ProgramID) (types.FactoryEvent, error) {
	if !f.state.IsAdmin(sender) {
		return nil, types.ErrUnauthorized
	}

	if _, ok := f.state.idToAddress[id]; !ok {
		return nil, types.ErrIDNotFoundInAddress
	}
	delete(f.state.idToAddress, id)

	if !f.state.unrecord(id) {
		f.logger.Warn("Program missing from registry after address removal", zap.Uint64("id", uint64(id)))
		return nil, types.ErrIDNotFound
	}

	return types.RegistryRemoved{RemovedBy: sender, ProgramForID: id}, nil
}
