// Package factory implements the program factory state machine.
//
// State holds the counter, the code template, the admin list, the gas
// budget and the two linked indexes (id -> address, creator -> history).
// Factory applies the five transitions to it. Neither type locks: callers
// must serialize every operation, including the suspended wait inside
// CreateProgram. The dispatch package provides that serialization.
package factory
