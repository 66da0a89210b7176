package types

// Event names as they appear on the wire
const (
	EventProgramCreated            = "ProgramCreated"
	EventGasUpdatedSuccessfully    = "GasUpdatedSuccessfully"
	EventCodeIDUpdatedSuccessfully = "CodeIdUpdatedSuccessfully"
	EventAdminAdded                = "AdminAdded"
	EventRegistryRemoved           = "RegistryRemoved"
)

// FactoryEvent is the success reply of a command
type FactoryEvent interface {
	EventName() string
}

// ProgramCreated reports a freshly spawned child program
type ProgramCreated struct {
	ID         ProgramID
	Address    ActorAddress
	InitConfig InitConfig
}

// GasUpdatedSuccessfully reports a new gas budget
type GasUpdatedSuccessfully struct {
	UpdatedBy    ActorAddress
	NewGasAmount uint64
}

// CodeIDUpdatedSuccessfully reports a new code template
type CodeIDUpdatedSuccessfully struct {
	UpdatedBy ActorAddress
	NewCodeID CodeID
}

// AdminAdded reports an appended admin
type AdminAdded struct {
	UpdatedBy    ActorAddress
	AdminActorID ActorAddress
}

// RegistryRemoved reports a program removed from both indexes
type RegistryRemoved struct {
	RemovedBy    ActorAddress
	ProgramForID ProgramID
}

func (ProgramCreated) EventName() string            { return EventProgramCreated }
func (GasUpdatedSuccessfully) EventName() string    { return EventGasUpdatedSuccessfully }
func (CodeIDUpdatedSuccessfully) EventName() string { return EventCodeIDUpdatedSuccessfully }
func (AdminAdded) EventName() string                { return EventAdminAdded }
func (RegistryRemoved) EventName() string           { return EventRegistryRemoved }
