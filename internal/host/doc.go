// Package host provides the program-instantiation primitive the factory
// spawns child programs through.
//
// A spawn has two stages. Spawn issues the request and fails synchronously
// when the host refuses it; the returned Pending resolves to the child's
// address once the host acknowledges instantiation.
//
// Implementations:
//   - MemoryHost: in-process host runtime
//   - RemoteHost: HTTP client of an external host runtime
//   - BreakerSpawner: circuit breaker around any Spawner
package host
