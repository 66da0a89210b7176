// Package id provides identifier generation for the factory backend.
//
// This package offers ULID generation with:
//   - Lexicographic sortability: spawn and request ids order by creation time
//   - Prefixed types: type-specific prefixes for logs (req_*, spawn_*)
//   - Salts: raw ULID bytes used to derive child program addresses
//
// ULIDs are never used as program identifiers; those are counters issued by
// the factory state machine.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID correlates one API request across logs
type RequestID string

// SpawnID identifies one pending spawn on the host
type SpawnID string

const (
	RequestPrefix = "req"
	SpawnPrefix   = "spawn"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand, monotonic within a millisecond
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// Salt returns 16 fresh bytes for address derivation
func (g *Generator) Salt() []byte {
	u := g.Generate()
	return u[:]
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewSpawnID generates a new spawn ID
func NewSpawnID() SpawnID {
	return SpawnID(Default().GenerateWithPrefix(SpawnPrefix))
}

func (id RequestID) String() string { return string(id) }
func (id SpawnID) String() string   { return string(id) }
