// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/ProgramFactory/internal/host"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// Address returns a deterministic actor address whose last byte is n
func Address(n byte) types.ActorAddress {
	var a types.ActorAddress
	a[31] = n
	return a
}

// Code returns a deterministic code id whose last byte is n
func Code(n byte) types.CodeID {
	var c types.CodeID
	c[31] = n
	return c
}

// MockSpawner is a mock implementation of host.Spawner for testing.
type MockSpawner struct {
	mock.Mock
}

// Spawn mocks the Spawn method.
func (m *MockSpawner) Spawn(ctx context.Context, req host.SpawnRequest) (host.Pending, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(host.Pending), args.Error(1)
}

// NewMockSpawner creates a mock spawner; expectations are set by the caller.
func NewMockSpawner(t *testing.T) *MockSpawner {
	t.Helper()
	m := new(MockSpawner)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// StaticSpawner acknowledges every spawn with Address(1), Address(2), ...
// and records the requests it saw.
type StaticSpawner struct {
	mu       sync.Mutex
	next     byte
	requests []host.SpawnRequest
}

// Spawn records req and resolves to the next sequential address
func (s *StaticSpawner) Spawn(ctx context.Context, req host.SpawnRequest) (host.Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.requests = append(s.requests, req)
	return host.Resolved(Address(s.next)), nil
}

// Requests returns a copy of the requests seen so far
func (s *StaticSpawner) Requests() []host.SpawnRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]host.SpawnRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// GateSpawner holds every acknowledgement until Release is called.
type GateSpawner struct {
	Address types.ActorAddress
	Issued  chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewGateSpawner creates a spawner whose acknowledgements wait on Release
func NewGateSpawner(addr types.ActorAddress) *GateSpawner {
	return &GateSpawner{
		Address: addr,
		Issued:  make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

// Spawn signals Issued and returns an acknowledgement gated on Release
func (g *GateSpawner) Spawn(ctx context.Context, req host.SpawnRequest) (host.Pending, error) {
	g.Issued <- struct{}{}
	return host.PendingFunc(func(ctx context.Context) (types.ActorAddress, error) {
		select {
		case <-ctx.Done():
			return types.ActorAddress{}, ctx.Err()
		case <-g.release:
			return g.Address, nil
		}
	}), nil
}

// Release lets every held acknowledgement through
func (g *GateSpawner) Release() {
	g.once.Do(func() { close(g.release) })
}
