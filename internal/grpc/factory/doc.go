// Package factory exposes the factory actor as the gRPC service
// factory.v1.Factory.
//
// The service has no generated stubs. Messages are a single Frame whose
// payload carries codec bytes, and frames travel with the registered "json"
// content subtype. The sender of Handle travels in the x-actor-id metadata
// key.
package factory
