package types

import "fmt"

// Query selects one slice of the factory state
type Query uint8

const (
	QueryNumber Query = iota
	QueryCodeID
	QueryFactoryAdminAccount
	QueryGasForProgram
	QueryIDToAddress
	QueryRegistry
)

var queryNames = [...]string{
	QueryNumber:              "Number",
	QueryCodeID:              "CodeId",
	QueryFactoryAdminAccount: "FactoryAdminAccount",
	QueryGasForProgram:       "GasForProgram",
	QueryIDToAddress:         "IdToAddress",
	QueryRegistry:            "Registry",
}

// Queries lists every query kind in declaration order
func Queries() []Query {
	return []Query{QueryNumber, QueryCodeID, QueryFactoryAdminAccount, QueryGasForProgram, QueryIDToAddress, QueryRegistry}
}

func (q Query) String() string {
	if int(q) < len(queryNames) {
		return queryNames[q]
	}
	return fmt.Sprintf("Query(%d)", uint8(q))
}

// ParseQuery resolves a wire name
func ParseQuery(name string) (Query, error) {
	for i, n := range queryNames {
		if n == name {
			return Query(i), nil
		}
	}
	return 0, fmt.Errorf("unknown query %q", name)
}

// QueryReply carries the state slice selected by a Query
type QueryReply interface {
	Query() Query
}

type NumberReply struct{ Number ProgramID }

type CodeIDReply struct{ CodeID CodeID }

type FactoryAdminAccountReply struct{ Admins []ActorAddress }

type GasForProgramReply struct{ Gas uint64 }

// IDToAddressReply lists live programs by ascending id
type IDToAddressReply struct{ Entries []AddressEntry }

// RegistryReply lists creators in first-creation order
type RegistryReply struct{ Creators []CreatorEntry }

func (NumberReply) Query() Query              { return QueryNumber }
func (CodeIDReply) Query() Query              { return QueryCodeID }
func (FactoryAdminAccountReply) Query() Query { return QueryFactoryAdminAccount }
func (GasForProgramReply) Query() Query       { return QueryGasForProgram }
func (IDToAddressReply) Query() Query         { return QueryIDToAddress }
func (RegistryReply) Query() Query            { return QueryRegistry }
