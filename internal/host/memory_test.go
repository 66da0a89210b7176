package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

var testCode = types.CodeID{0xc0, 0xde}

func TestMemoryHostSpawn(t *testing.T) {
	h := NewMemoryHost(MemoryOptions{StrictCodes: true}, nil)
	h.UploadCode(testCode)

	pending, err := h.Spawn(context.Background(), SpawnRequest{
		CodeID:   testCode,
		Payload:  types.InitConfig{Field: "x"},
		GasLimit: 100,
	})
	require.NoError(t, err)

	addr, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, addr.IsZero())

	programs := h.Programs()
	require.Len(t, programs, 1)
	assert.Equal(t, addr, programs[0].Address)
	assert.Equal(t, "x", programs[0].Payload.Field)
	assert.Equal(t, uint64(100), programs[0].GasLimit)
}

func TestMemoryHostAddressesAreUnique(t *testing.T) {
	h := NewMemoryHost(MemoryOptions{}, nil)
	seen := make(map[types.ActorAddress]bool)

	for i := 0; i < 20; i++ {
		pending, err := h.Spawn(context.Background(), SpawnRequest{CodeID: testCode})
		require.NoError(t, err)
		addr, err := pending.Wait(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[addr], "address reused: %s", addr)
		seen[addr] = true
	}
}

func TestMemoryHostRefusals(t *testing.T) {
	t.Run("unknown code fails synchronously", func(t *testing.T) {
		h := NewMemoryHost(MemoryOptions{StrictCodes: true}, nil)

		_, err := h.Spawn(context.Background(), SpawnRequest{CodeID: testCode})
		assert.ErrorIs(t, err, ErrUnknownCode)
		assert.Empty(t, h.Programs())
	})

	t.Run("insufficient gas fails at acknowledgement", func(t *testing.T) {
		h := NewMemoryHost(MemoryOptions{MinGas: 1000}, nil)

		pending, err := h.Spawn(context.Background(), SpawnRequest{CodeID: testCode, GasLimit: 10})
		require.NoError(t, err)

		_, err = pending.Wait(context.Background())
		assert.ErrorIs(t, err, ErrInsufficientGas)
		assert.Empty(t, h.Programs())
	})

	t.Run("acknowledgement honours cancellation", func(t *testing.T) {
		h := NewMemoryHost(MemoryOptions{AckDelay: time.Hour}, nil)

		pending, err := h.Spawn(context.Background(), SpawnRequest{CodeID: testCode})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err = pending.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestDeriveAddress(t *testing.T) {
	salt := []byte("0123456789abcdef")

	a := DeriveAddress(testCode, salt)
	b := DeriveAddress(testCode, salt)
	c := DeriveAddress(types.CodeID{0x01}, salt)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
