package types

// MessageSchema names the input and output types of one entry point
type MessageSchema struct {
	In  string `json:"in"`
	Out string `json:"out,omitempty"`
}

// ProgramMetadata describes the message types of every factory entry point
type ProgramMetadata struct {
	Init   MessageSchema `json:"init"`
	Handle MessageSchema `json:"handle"`
	State  MessageSchema `json:"state"`
}

// Metadata is the factory's entry point description
var Metadata = ProgramMetadata{
	Init:   MessageSchema{In: "InitConfigFactory"},
	Handle: MessageSchema{In: "FactoryAction", Out: "Result<FactoryEvent, FactoryError>"},
	State:  MessageSchema{In: "Query", Out: "QueryReply"},
}
