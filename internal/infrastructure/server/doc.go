// Package server wires the factory service together.
//
// Server Lifecycle:
//  1. Build metrics and the host runtime spawner (memory or remote,
//     optionally behind a circuit breaker)
//  2. Start the dispatch actor with metrics and the event hub as observers
//  3. Apply the configured init message, if any
//  4. Mount HTTP routes and middleware; build the gRPC server
//  5. Serve until Shutdown, which drains listeners before stopping the actor
package server
