// Package types provides the shared data model of the program factory.
//
// This package defines the entities exchanged between the factory state
// machine, the dispatch harness, the export path and the outer surfaces.
// It holds no behavior beyond parsing and naming.
//
// Identity:
//   - ProgramID: factory-issued identifier of a created program
//   - ActorAddress: opaque address of an on-host actor
//   - CodeID: reference to the code bundle new programs are built from
//
// Payloads:
//   - InitConfig: payload forwarded to a spawned child program
//   - Record: per-program copy of the payload kept in the registry
//   - InitConfigFactory: one-time factory initialization
//
// Messages:
//   - FactoryAction: command accepted by the factory
//   - FactoryEvent: success reply of a command
//   - FactoryError: failure reply of a command
//   - Result: the single reply of a command invocation
//   - Query, QueryReply: read-only state export
//
// Example Usage:
//
//	action := types.CreateProgram{InitConfig: types.InitConfig{Field: "x"}}
//	result := types.ResultOf(ev, err)
package types
