package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, -1, id1.Compare(id2), "monotonic entropy should order ids")
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{RequestPrefix, SpawnPrefix} {
		value := gen.GenerateWithPrefix(prefix)

		parts := strings.Split(value, "_")
		require.Len(t, parts, 2, "prefixed id should be prefix_ulid: %s", value)
		assert.Equal(t, prefix, parts[0])
		_, err := ulid.Parse(parts[1])
		assert.NoError(t, err)
	}
}

func TestSaltIsFresh(t *testing.T) {
	gen := NewGenerator()

	a := gen.Salt()
	b := gen.Salt()

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewRequestID().String(), RequestPrefix+"_"))
	assert.True(t, strings.HasPrefix(NewSpawnID().String(), SpawnPrefix+"_"))
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers, perWorker = 8, 100

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s := gen.Generate().String()
				mu.Lock()
				seen[s] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
