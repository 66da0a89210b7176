package codec

import (
	"fmt"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

type initConfigWire struct {
	Field string `json:"field"`
}

type createProgramWire struct {
	InitConfig initConfigWire `json:"init_config"`
}

type codeIDUpdateWire struct {
	NewCodeID string `json:"new_code_id"`
}

type addAdminWire struct {
	AdminActorID string `json:"admin_actor_id"`
}

type removeRegistryWire struct {
	ID uint64 `json:"id"`
}

func (initConfigWire) wireFields() []string { return []string{"field"} }
func (createProgramWire) wireFields() []string { return []string{"init_config"} }
func (codeIDUpdateWire) wireFields() []string { return []string{"new_code_id"} }
func (addAdminWire) wireFields() []string { return []string{"admin_actor_id"} }
func (removeRegistryWire) wireFields() []string { return []string{"id"} }

// UnmarshalJSON enforces the field set of a nested init config
func (w *initConfigWire) UnmarshalJSON(data []byte) error {
	if err := requireFields("init_config", data, w.wireFields()...); err != nil {
		return err
	}
	type plain initConfigWire
	return api.Unmarshal(data, (*plain)(w))
}

// EncodeAction encodes a command
func EncodeAction(a types.FactoryAction) ([]byte, error) {
	switch a := a.(type) {
	case types.CreateProgram:
		return variant(a.ActionName(), createProgramWire{InitConfig: initConfigWire{Field: a.InitConfig.Field}})
	case types.CodeIDUpdate:
		return variant(a.ActionName(), codeIDUpdateWire{NewCodeID: a.NewCodeID.String()})
	case types.UpdateGasProgram:
		return variant(a.ActionName(), a.NewGasAmount)
	case types.AddAdmin:
		return variant(a.ActionName(), addAdminWire{AdminActorID: a.AdminActorID.String()})
	case types.RemoveRegistry:
		return variant(a.ActionName(), removeRegistryWire{ID: uint64(a.ID)})
	default:
		return nil, fmt.Errorf("codec: unsupported action %T", a)
	}
}

// DecodeAction decodes a command
func DecodeAction(data []byte) (types.FactoryAction, error) {
	tag, body, err := splitVariant(data)
	if err != nil {
		return nil, err
	}

	switch tag {
	case types.ActionCreateProgram:
		var w createProgramWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		return types.CreateProgram{InitConfig: types.InitConfig{Field: w.InitConfig.Field}}, nil
	case types.ActionCodeIDUpdate:
		var w codeIDUpdateWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		code, err := parseCode("new_code_id", w.NewCodeID)
		if err != nil {
			return nil, err
		}
		return types.CodeIDUpdate{NewCodeID: code}, nil
	case types.ActionUpdateGasProgram:
		var gas uint64
		if err := decodeBody(tag, body, &gas); err != nil {
			return nil, err
		}
		return types.UpdateGasProgram{NewGasAmount: gas}, nil
	case types.ActionAddAdmin:
		var w addAdminWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		admin, err := parseAddress("admin_actor_id", w.AdminActorID)
		if err != nil {
			return nil, err
		}
		return types.AddAdmin{AdminActorID: admin}, nil
	case types.ActionRemoveRegistry:
		var w removeRegistryWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		return types.RemoveRegistry{ID: types.ProgramID(w.ID)}, nil
	default:
		return nil, malformed("unknown action %q", tag)
	}
}
