package types

// InitConfig is forwarded unchanged to a newly spawned child program
type InitConfig struct {
	Field string
}

// Clone returns an independent copy
func (c InitConfig) Clone() InitConfig {
	return InitConfig{Field: c.Field}
}

// Record is the registry copy of a created program's payload
type Record struct {
	Field string
}

// RecordFrom derives the registry record of an init payload
func RecordFrom(c InitConfig) Record {
	return Record{Field: c.Field}
}

// InitConfigFactory initializes the factory exactly once
type InitConfigFactory struct {
	CodeID        CodeID
	Admins        []ActorAddress
	GasForProgram uint64
}

// RegistryEntry is one (id, record) pair in a creator's history
type RegistryEntry struct {
	ID     ProgramID
	Record Record
}

// AddressEntry is one id -> address pair of the live program index
type AddressEntry struct {
	ID      ProgramID
	Address ActorAddress
}

// CreatorEntry is one creator's ordered program history
type CreatorEntry struct {
	Creator  ActorAddress
	Programs []RegistryEntry
}
