package codec

import (
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// InitWire is the transport form of InitConfigFactory, shared with the
// config loader's init documents
type InitWire struct {
	CodeID              string   `json:"code_id" yaml:"code_id" toml:"code_id"`
	FactoryAdminAccount []string `json:"factory_admin_account" yaml:"factory_admin_account" toml:"factory_admin_account"`
	GasForProgram       uint64   `json:"gas_for_program" yaml:"gas_for_program" toml:"gas_for_program"`
}

// ToInit validates and converts the transport form
func (w InitWire) ToInit() (types.InitConfigFactory, error) {
	code, err := parseCode("code_id", w.CodeID)
	if err != nil {
		return types.InitConfigFactory{}, err
	}
	admins := make([]types.ActorAddress, 0, len(w.FactoryAdminAccount))
	for _, s := range w.FactoryAdminAccount {
		a, err := parseAddress("factory_admin_account", s)
		if err != nil {
			return types.InitConfigFactory{}, err
		}
		admins = append(admins, a)
	}
	return types.InitConfigFactory{
		CodeID:        code,
		Admins:        admins,
		GasForProgram: w.GasForProgram,
	}, nil
}

// InitWireFrom converts an init message to its transport form
func InitWireFrom(init types.InitConfigFactory) InitWire {
	return InitWire{
		CodeID:              init.CodeID.String(),
		FactoryAdminAccount: addresses(init.Admins),
		GasForProgram:       init.GasForProgram,
	}
}

// EncodeInit encodes the initialization message
func EncodeInit(init types.InitConfigFactory) ([]byte, error) {
	return api.Marshal(InitWireFrom(init))
}

// DecodeInit decodes the initialization message
func DecodeInit(data []byte) (types.InitConfigFactory, error) {
	if err := requireFields("init", data, "code_id", "factory_admin_account", "gas_for_program"); err != nil {
		return types.InitConfigFactory{}, err
	}
	var w InitWire
	if err := Unmarshal(data, &w); err != nil {
		return types.InitConfigFactory{}, err
	}
	return w.ToInit()
}
