// Package dispatch runs the factory as a single logical actor.
//
// Every invocation (init, command or query) is queued on one mailbox and
// handled to completion before the next one starts, including the wait for
// a spawn acknowledgement. Each invocation receives exactly one reply.
package dispatch
