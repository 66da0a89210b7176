package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/id"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// MemoryOptions configures a MemoryHost
type MemoryOptions struct {
	// StrictCodes refuses spawns from code ids that were never uploaded
	StrictCodes bool
	// MinGas is the gas an instantiation costs; lower limits fail at acknowledgement
	MinGas uint64
	// AckDelay delays every acknowledgement
	AckDelay time.Duration
}

// Program is a child program instantiated by a MemoryHost
type Program struct {
	SpawnID   id.SpawnID
	Address   types.ActorAddress
	CodeID    types.CodeID
	Payload   types.InitConfig
	GasLimit  uint64
	CreatedAt time.Time
}

// MemoryHost is an in-process host runtime
type MemoryHost struct {
	opts   MemoryOptions
	ids    *id.Generator
	logger *zap.Logger

	mu       sync.Mutex
	codes    map[types.CodeID]struct{} // Protected by mu
	programs []Program                 // Protected by mu
}

// NewMemoryHost creates an in-process host
func NewMemoryHost(opts MemoryOptions, logger *zap.Logger) *MemoryHost {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryHost{
		opts:   opts,
		ids:    id.NewGenerator(),
		logger: logger.Named(logging.ComponentHost + ".memory"),
		codes:  make(map[types.CodeID]struct{}),
	}
}

// UploadCode makes a code id instantiable
func (h *MemoryHost) UploadCode(code types.CodeID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.codes[code] = struct{}{}
}

// Spawn issues an instantiation; unknown code fails synchronously in strict mode
func (h *MemoryHost) Spawn(ctx context.Context, req SpawnRequest) (Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	_, known := h.codes[req.CodeID]
	h.mu.Unlock()
	if h.opts.StrictCodes && !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCode, req.CodeID)
	}

	spawnID := id.NewSpawnID()
	salt := h.ids.Salt()
	payload := req.Payload.Clone()

	h.logger.Debug("Spawn issued",
		zap.String("spawn_id", spawnID.String()),
		zap.String("code_id", req.CodeID.String()),
		zap.Uint64("gas_limit", req.GasLimit),
	)

	return PendingFunc(func(ctx context.Context) (types.ActorAddress, error) {
		if h.opts.AckDelay > 0 {
			timer := time.NewTimer(h.opts.AckDelay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return types.ActorAddress{}, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return types.ActorAddress{}, err
		}
		if req.GasLimit < h.opts.MinGas {
			return types.ActorAddress{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientGas, req.GasLimit, h.opts.MinGas)
		}

		addr := DeriveAddress(req.CodeID, salt)
		h.mu.Lock()
		h.programs = append(h.programs, Program{
			SpawnID:   spawnID,
			Address:   addr,
			CodeID:    req.CodeID,
			Payload:   payload,
			GasLimit:  req.GasLimit,
			CreatedAt: time.Now(),
		})
		h.mu.Unlock()

		h.logger.Info("Program instantiated",
			zap.String("spawn_id", spawnID.String()),
			zap.String("address", addr.String()),
		)
		return addr, nil
	}), nil
}

// Programs returns a copy of every instantiated program, oldest first
func (h *MemoryHost) Programs() []Program {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Program, len(h.programs))
	copy(out, h.programs)
	return out
}

// DeriveAddress computes a child address as blake2b-256(code id || salt)
func DeriveAddress(code types.CodeID, salt []byte) types.ActorAddress {
	buf := make([]byte, 0, len(code)+len(salt))
	buf = append(buf, code[:]...)
	buf = append(buf, salt...)
	return types.ActorAddress(blake2b.Sum256(buf))
}
