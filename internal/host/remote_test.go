package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

const childAddress = "0x1111111111111111111111111111111111111111111111111111111111111111"

type fakeRuntime struct {
	pendingPolls int32
	polls        atomic.Int32
	lastSpawn    spawnBody
	refuse       bool
	failAck      bool
}

func (f *fakeRuntime) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /programs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastSpawn))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		if f.refuse {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"code not found"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"message_id":"m-1"}`))
	})
	mux.HandleFunc("GET /programs/replies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("id") != "m-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		n := f.polls.Add(1)
		switch {
		case n <= f.pendingPolls:
			_, _ = w.Write([]byte(`{"status":"pending"}`))
		case f.failAck:
			_, _ = w.Write([]byte(`{"status":"failed","error":"trap in init"}`))
		default:
			_, _ = w.Write([]byte(`{"status":"ok","address":"` + childAddress + `"}`))
		}
	})
	return mux
}

func newTestRemote(url string) *RemoteHost {
	opts := DefaultRemoteOptions(url)
	opts.PollInterval = 5 * time.Millisecond
	opts.RetryMax = 0
	return NewRemoteHost(opts, nil)
}

func TestRemoteHostSpawnAndAwait(t *testing.T) {
	runtime := &fakeRuntime{pendingPolls: 2}
	srv := httptest.NewServer(runtime.handler(t))
	defer srv.Close()

	h := newTestRemote(srv.URL)
	pending, err := h.Spawn(context.Background(), SpawnRequest{
		CodeID:   types.CodeID{0xaa},
		Payload:  types.InitConfig{Field: "x"},
		GasLimit: 42,
	})
	require.NoError(t, err)

	addr, err := pending.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, childAddress, addr.String())
	assert.Equal(t, int32(3), runtime.polls.Load())
	assert.Equal(t, "x", runtime.lastSpawn.Payload.Field)
	assert.Equal(t, uint64(42), runtime.lastSpawn.GasLimit)
	assert.Equal(t, uint64(0), runtime.lastSpawn.Value)
	assert.Equal(t, types.CodeID{0xaa}.String(), runtime.lastSpawn.CodeID)
}

func TestRemoteHostRefusal(t *testing.T) {
	srv := httptest.NewServer((&fakeRuntime{refuse: true}).handler(t))
	defer srv.Close()

	_, err := newTestRemote(srv.URL).Spawn(context.Background(), SpawnRequest{})
	require.ErrorIs(t, err, ErrSpawnRejected)
	assert.Contains(t, err.Error(), "code not found")
}

func TestRemoteHostFailedAcknowledgement(t *testing.T) {
	srv := httptest.NewServer((&fakeRuntime{failAck: true}).handler(t))
	defer srv.Close()

	pending, err := newTestRemote(srv.URL).Spawn(context.Background(), SpawnRequest{})
	require.NoError(t, err)

	_, err = pending.Wait(context.Background())
	require.ErrorIs(t, err, ErrSpawnRejected)
	assert.Contains(t, err.Error(), "trap in init")
}

func TestRemoteHostAwaitTimeout(t *testing.T) {
	srv := httptest.NewServer((&fakeRuntime{pendingPolls: 1 << 30}).handler(t))
	defer srv.Close()

	pending, err := newTestRemote(srv.URL).Spawn(context.Background(), SpawnRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemoteHostUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestRemote(url).Spawn(context.Background(), SpawnRequest{})
	assert.ErrorIs(t, err, ErrHostUnavailable)
}
