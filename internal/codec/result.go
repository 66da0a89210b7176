package codec

import (
	"fmt"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

const (
	tagOk  = "Ok"
	tagErr = "Err"
)

type programCreatedWire struct {
	ID         uint64         `json:"id"`
	Address    string         `json:"address"`
	InitConfig initConfigWire `json:"init_config"`
}

type gasUpdatedWire struct {
	UpdatedBy    string `json:"updated_by"`
	NewGasAmount uint64 `json:"new_gas_amount"`
}

type codeIDUpdatedWire struct {
	UpdatedBy string `json:"updated_by"`
	NewCodeID string `json:"new_code_id"`
}

type adminAddedWire struct {
	UpdatedBy    string `json:"updated_by"`
	AdminActorID string `json:"admin_actor_id"`
}

type registryRemovedWire struct {
	RemovedBy    string `json:"removed_by"`
	ProgramForID uint64 `json:"program_for_id"`
}

func (programCreatedWire) wireFields() []string {
	return []string{"id", "address", "init_config"}
}
func (gasUpdatedWire) wireFields() []string { return []string{"updated_by", "new_gas_amount"} }
func (codeIDUpdatedWire) wireFields() []string { return []string{"updated_by", "new_code_id"} }
func (adminAddedWire) wireFields() []string { return []string{"updated_by", "admin_actor_id"} }
func (registryRemovedWire) wireFields() []string { return []string{"removed_by", "program_for_id"} }

func eventWire(ev types.FactoryEvent) (any, error) {
	switch ev := ev.(type) {
	case types.ProgramCreated:
		return programCreatedWire{
			ID:         uint64(ev.ID),
			Address:    ev.Address.String(),
			InitConfig: initConfigWire{Field: ev.InitConfig.Field},
		}, nil
	case types.GasUpdatedSuccessfully:
		return gasUpdatedWire{UpdatedBy: ev.UpdatedBy.String(), NewGasAmount: ev.NewGasAmount}, nil
	case types.CodeIDUpdatedSuccessfully:
		return codeIDUpdatedWire{UpdatedBy: ev.UpdatedBy.String(), NewCodeID: ev.NewCodeID.String()}, nil
	case types.AdminAdded:
		return adminAddedWire{UpdatedBy: ev.UpdatedBy.String(), AdminActorID: ev.AdminActorID.String()}, nil
	case types.RegistryRemoved:
		return registryRemovedWire{RemovedBy: ev.RemovedBy.String(), ProgramForID: uint64(ev.ProgramForID)}, nil
	default:
		return nil, fmt.Errorf("codec: unsupported event %T", ev)
	}
}

func eventValue(ev types.FactoryEvent) (map[string]any, error) {
	w, err := eventWire(ev)
	if err != nil {
		return nil, err
	}
	return map[string]any{ev.EventName(): w}, nil
}

func errorValue(fe *types.FactoryError) any {
	if fe.Kind.HasDetail() {
		return map[string]any{fe.Kind.String(): fe.Detail}
	}
	return fe.Kind.String()
}

// EncodeEvent encodes a success event
func EncodeEvent(ev types.FactoryEvent) ([]byte, error) {
	v, err := eventValue(ev)
	if err != nil {
		return nil, err
	}
	return api.Marshal(v)
}

// EncodeResult encodes the reply of a command invocation
func EncodeResult(r types.Result) ([]byte, error) {
	if r.Err != nil {
		return variant(tagErr, errorValue(r.Err))
	}
	if r.Event == nil {
		return nil, fmt.Errorf("codec: result carries neither event nor error")
	}
	v, err := eventValue(r.Event)
	if err != nil {
		return nil, err
	}
	return variant(tagOk, v)
}

// DecodeEvent decodes a success event
func DecodeEvent(data []byte) (types.FactoryEvent, error) {
	tag, body, err := splitVariant(data)
	if err != nil {
		return nil, err
	}

	switch tag {
	case types.EventProgramCreated:
		var w programCreatedWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		addr, err := parseAddress("address", w.Address)
		if err != nil {
			return nil, err
		}
		return types.ProgramCreated{
			ID:         types.ProgramID(w.ID),
			Address:    addr,
			InitConfig: types.InitConfig{Field: w.InitConfig.Field},
		}, nil
	case types.EventGasUpdatedSuccessfully:
		var w gasUpdatedWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		by, err := parseAddress("updated_by", w.UpdatedBy)
		if err != nil {
			return nil, err
		}
		return types.GasUpdatedSuccessfully{UpdatedBy: by, NewGasAmount: w.NewGasAmount}, nil
	case types.EventCodeIDUpdatedSuccessfully:
		var w codeIDUpdatedWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		by, err := parseAddress("updated_by", w.UpdatedBy)
		if err != nil {
			return nil, err
		}
		code, err := parseCode("new_code_id", w.NewCodeID)
		if err != nil {
			return nil, err
		}
		return types.CodeIDUpdatedSuccessfully{UpdatedBy: by, NewCodeID: code}, nil
	case types.EventAdminAdded:
		var w adminAddedWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		by, err := parseAddress("updated_by", w.UpdatedBy)
		if err != nil {
			return nil, err
		}
		admin, err := parseAddress("admin_actor_id", w.AdminActorID)
		if err != nil {
			return nil, err
		}
		return types.AdminAdded{UpdatedBy: by, AdminActorID: admin}, nil
	case types.EventRegistryRemoved:
		var w registryRemovedWire
		if err := decodeBody(tag, body, &w); err != nil {
			return nil, err
		}
		by, err := parseAddress("removed_by", w.RemovedBy)
		if err != nil {
			return nil, err
		}
		return types.RegistryRemoved{RemovedBy: by, ProgramForID: types.ProgramID(w.ProgramForID)}, nil
	default:
		return nil, malformed("unknown event %q", tag)
	}
}

// DecodeError decodes a failure reply
func DecodeError(data []byte) (*types.FactoryError, error) {
	tag, body, err := splitVariant(data)
	if err != nil {
		return nil, err
	}
	kind, ok := types.ParseErrorKind(tag)
	if !ok {
		return nil, malformed("unknown error %q", tag)
	}
	fe := &types.FactoryError{Kind: kind}
	if kind.HasDetail() {
		if err := decodeBody(tag, body, &fe.Detail); err != nil {
			return nil, err
		}
	} else if body != nil {
		return nil, malformed("variant %s takes no payload", tag)
	}
	return fe, nil
}

// DecodeResult decodes the reply of a command invocation
func DecodeResult(data []byte) (types.Result, error) {
	tag, body, err := splitVariant(data)
	if err != nil {
		return types.Result{}, err
	}
	if err := requirePayload(tag, body); err != nil {
		return types.Result{}, err
	}

	switch tag {
	case tagOk:
		ev, err := DecodeEvent(body)
		if err != nil {
			return types.Result{}, err
		}
		return types.Ok(ev), nil
	case tagErr:
		fe, err := DecodeError(body)
		if err != nil {
			return types.Result{}, err
		}
		return types.Fail(fe), nil
	default:
		return types.Result{}, malformed("unknown result variant %q", tag)
	}
}
