// Command server runs the program factory with its HTTP and gRPC surfaces.
//
// Configuration comes from the environment (see internal/infrastructure/config),
// optionally seeded from a dotenv file:
//
//	FACTORY_CODE_ID=0x... FACTORY_ADMINS=0x...,0x... go run ./cmd/server
package main
