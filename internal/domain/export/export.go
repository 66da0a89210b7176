// Package export serves read-only snapshots of the factory state.
package export

import (
	"fmt"

	"github.com/GriffinCanCode/ProgramFactory/internal/domain/factory"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// Reader is the read side of the factory state
type Reader interface {
	Number() types.ProgramID
	CodeID() types.CodeID
	Admins() []types.ActorAddress
	GasForProgram() uint64
	AddressEntries() []types.AddressEntry
	CreatorEntries() []types.CreatorEntry
}

var _ Reader = (*factory.State)(nil)

// Export returns the state slice selected by q. Replies share no memory
// with the state.
func Export(state Reader, q types.Query) (types.QueryReply, error) {
	switch q {
	case types.QueryNumber:
		return types.NumberReply{Number: state.Number()}, nil
	case types.QueryCodeID:
		return types.CodeIDReply{CodeID: state.CodeID()}, nil
	case types.QueryFactoryAdminAccount:
		return types.FactoryAdminAccountReply{Admins: state.Admins()}, nil
	case types.QueryGasForProgram:
		return types.GasForProgramReply{Gas: state.GasForProgram()}, nil
	case types.QueryIDToAddress:
		return types.IDToAddressReply{Entries: state.AddressEntries()}, nil
	case types.QueryRegistry:
		return types.RegistryReply{Creators: state.CreatorEntries()}, nil
	default:
		return nil, fmt.Errorf("export: unsupported query %s", q)
	}
}
