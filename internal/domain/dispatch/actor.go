package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProgramFactory/internal/domain/export"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/factory"
	"github.com/GriffinCanCode/ProgramFactory/internal/host"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

var (
	ErrNotInitialized     = errors.New("dispatch: factory not initialized")
	ErrAlreadyInitialized = errors.New("dispatch: factory already initialized")
	ErrStopped            = errors.New("dispatch: actor stopped")

	// ErrOutcomeUnknown wraps a caller's context error once its invocation
	// is queued; the invocation still runs and may have been applied
	ErrOutcomeUnknown = errors.New("dispatch: stopped waiting for a queued invocation")
)

// Config tunes the actor
type Config struct {
	// SpawnTimeout bounds the wait for a spawn acknowledgement; zero waits
	// for as long as the host takes
	SpawnTimeout time.Duration
	MailboxSize  int
}

// DefaultConfig returns the default actor configuration
func DefaultConfig() Config {
	return Config{
		SpawnTimeout: 30 * time.Second,
		MailboxSize:  64,
	}
}

type kind uint8

const (
	kindInit kind = iota
	kindCommand
	kindQuery
)

type envelope struct {
	kind   kind
	ctx    context.Context
	init   types.InitConfigFactory
	sender types.ActorAddress
	action types.FactoryAction
	query  types.Query
	reply  chan outcome
}

type outcome struct {
	result types.Result
	state  types.QueryReply
	err    error
}

// Actor owns the factory and serializes every invocation on it
type Actor struct {
	cfg      Config
	spawner  host.Spawner
	observer Observer
	logger   *zap.Logger

	mailbox chan envelope
	quit    chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool

	// owned by the loop goroutine
	factory *factory.Factory
}

// New creates an uninitialized actor. Observer may be nil.
func New(cfg Config, spawner host.Spawner, observer Observer, logger *zap.Logger) *Actor {
	if cfg.MailboxSize < 0 {
		cfg.MailboxSize = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = Observers()
	}
	return &Actor{
		cfg:      cfg,
		spawner:  spawner,
		observer: observer,
		logger:   logger.Named(logging.ComponentDispatch),
		mailbox:  make(chan envelope, cfg.MailboxSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the actor goroutine
func (a *Actor) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.stopped {
		return
	}
	a.started = true
	go a.loop()
	a.logger.Info("Factory actor started", zap.Int("mailbox", a.cfg.MailboxSize))
}

// Stop ends the actor after the invocation in progress. Queued and later
// callers receive ErrStopped.
func (a *Actor) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	started := a.started
	close(a.quit)
	a.mu.Unlock()

	if started {
		<-a.done
	} else {
		a.drain()
		close(a.done)
	}
	a.logger.Info("Factory actor stopped")
}

// Init applies the one-time initialization message
func (a *Actor) Init(ctx context.Context, init types.InitConfigFactory) error {
	out, err := a.call(ctx, envelope{kind: kindInit, init: init})
	if err != nil {
		return err
	}
	return out.err
}

// Handle runs one command on behalf of sender. Operation errors come back
// inside the Result; the error return is reserved for the harness.
func (a *Actor) Handle(ctx context.Context, sender types.ActorAddress, action types.FactoryAction) (types.Result, error) {
	if action == nil {
		return types.Result{}, fmt.Errorf("dispatch: nil action")
	}
	out, err := a.call(ctx, envelope{kind: kindCommand, sender: sender, action: action})
	if err != nil {
		return types.Result{}, err
	}
	return out.result, out.err
}

// Query exports one slice of the state
func (a *Actor) Query(ctx context.Context, q types.Query) (types.QueryReply, error) {
	out, err := a.call(ctx, envelope{kind: kindQuery, query: q})
	if err != nil {
		return nil, err
	}
	return out.state, out.err
}

func (a *Actor) call(ctx context.Context, env envelope) (outcome, error) {
	env.ctx = ctx
	env.reply = make(chan outcome, 1)

	select {
	case <-a.quit:
		return outcome{}, ErrStopped
	default:
	}

	select {
	case a.mailbox <- env:
	case <-a.quit:
		return outcome{}, ErrStopped
	case <-ctx.Done():
		return outcome{}, ctx.Err()
	}

	select {
	case out := <-env.reply:
		return out, nil
	case <-ctx.Done():
		return outcome{}, fmt.Errorf("%w: %w", ErrOutcomeUnknown, ctx.Err())
	case <-a.done:
		select {
		case out := <-env.reply:
			return out, nil
		default:
			return outcome{}, ErrStopped
		}
	}
}

func (a *Actor) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.quit:
			a.drain()
			return
		case env := <-a.mailbox:
			env.reply <- a.process(env)
		}
	}
}

func (a *Actor) drain() {
	for {
		select {
		case env := <-a.mailbox:
			env.reply <- outcome{err: ErrStopped}
		default:
			return
		}
	}
}

func (a *Actor) process(env envelope) outcome {
	switch env.kind {
	case kindInit:
		return outcome{err: a.initialize(env.init)}
	case kindCommand:
		if a.factory == nil {
			return outcome{err: ErrNotInitialized}
		}
		return outcome{result: a.command(env)}
	case kindQuery:
		if a.factory == nil {
			return outcome{err: ErrNotInitialized}
		}
		start := time.Now()
		reply, err := export.Export(a.factory.State(), env.query)
		if err == nil {
			a.observer.QueryServed(env.query, time.Since(start))
		}
		return outcome{state: reply, err: err}
	default:
		return outcome{err: fmt.Errorf("dispatch: unknown invocation kind %d", env.kind)}
	}
}

func (a *Actor) initialize(init types.InitConfigFactory) error {
	if a.factory != nil {
		return ErrAlreadyInitialized
	}
	a.factory = factory.New(factory.NewState(init), a.spawner, a.logger)
	a.logger.Info("Factory initialized",
		zap.String("code_id", init.CodeID.String()),
		zap.Int("admins", len(init.Admins)),
		zap.Uint64("gas_for_program", init.GasForProgram),
	)
	return nil
}

func (a *Actor) command(env envelope) types.Result {
	start := time.Now()
	cmd := Command{Sender: env.sender, Action: env.action}

	var ev types.FactoryEvent
	var err error
	switch act := env.action.(type) {
	case types.CreateProgram:
		ev, cmd.FailedStage, err = a.createProgram(env.ctx, env.sender, act.InitConfig)
	case types.UpdateGasProgram:
		ev, err = a.factory.UpdateGasProgram(env.sender, act.NewGasAmount)
	case types.CodeIDUpdate:
		ev, err = a.factory.CodeIDUpdate(env.sender, act.NewCodeID)
	case types.AddAdmin:
		ev, err = a.factory.AddAdmin(env.sender, act.AdminActorID)
	case types.RemoveRegistry:
		ev, err = a.factory.RemoveRegistry(env.sender, act.ID)
	default:
		err = types.InitFailure(fmt.Errorf("unsupported action %T", env.action))
	}

	cmd.Result = types.ResultOf(ev, err)
	cmd.Elapsed = time.Since(start)
	cmd.LiveCount = a.factory.State().LiveCount()

	fields := []zap.Field{
		zap.String("action", env.action.ActionName()),
		zap.String("sender", env.sender.String()),
		zap.String("outcome", cmd.Result.Outcome()),
		zap.Duration("elapsed", cmd.Elapsed),
	}
	if cmd.Result.IsOk() {
		a.logger.Debug("Command handled", fields...)
	} else {
		a.logger.Warn("Command failed", fields...)
	}

	a.observer.CommandHandled(cmd)
	return cmd.Result
}

// createProgram holds the actor for the whole spawn, so nothing else runs
// between issuing it and recording the acknowledgement
func (a *Actor) createProgram(ctx context.Context, sender types.ActorAddress, config types.InitConfig) (types.FactoryEvent, string, error) {
	ctx = context.WithoutCancel(ctx)
	if a.cfg.SpawnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.SpawnTimeout)
		defer cancel()
	}

	creation, err := a.factory.StartCreateProgram(ctx, sender, config)
	if err != nil {
		return nil, StageIssue, err
	}
	ev, err := creation.Await(ctx)
	if err != nil {
		return nil, StageAcknowledge, err
	}
	return ev, "", nil
}
