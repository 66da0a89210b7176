package types

// Action names as they appear on the wire
const (
	ActionCreateProgram    = "CreateProgram"
	ActionCodeIDUpdate     = "CodeIdUpdate"
	ActionUpdateGasProgram = "UpdateGasProgram"
	ActionAddAdmin         = "AddAdmin"
	ActionRemoveRegistry   = "RemoveRegistry"
)

// FactoryAction is a command accepted by the factory
type FactoryAction interface {
	ActionName() string
}

// CreateProgram spawns a child program; any caller may send it
type CreateProgram struct {
	InitConfig InitConfig
}

// CodeIDUpdate replaces the code template used for new programs
type CodeIDUpdate struct {
	NewCodeID CodeID
}

// UpdateGasProgram replaces the gas budget given to each spawn
type UpdateGasProgram struct {
	NewGasAmount uint64
}

// AddAdmin appends an address to the admin list
type AddAdmin struct {
	AdminActorID ActorAddress
}

// RemoveRegistry deletes a program from both indexes
type RemoveRegistry struct {
	ID ProgramID
}

func (CreateProgram) ActionName() string    { return ActionCreateProgram }
func (CodeIDUpdate) ActionName() string     { return ActionCodeIDUpdate }
func (UpdateGasProgram) ActionName() string { return ActionUpdateGasProgram }
func (AddAdmin) ActionName() string         { return ActionAddAdmin }
func (RemoveRegistry) ActionName() string   { return ActionRemoveRegistry }
