package codec

import (
	"encoding/json"
	"fmt"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

type recordWire struct {
	Field string `json:"field"`
}

// EncodeQuery encodes a query as a bare variant name
func EncodeQuery(q types.Query) ([]byte, error) {
	return api.Marshal(q.String())
}

// DecodeQuery decodes a bare variant name into a query
func DecodeQuery(data []byte) (types.Query, error) {
	tag, body, err := splitVariant(data)
	if err != nil {
		return 0, err
	}
	if body != nil {
		return 0, malformed("query %s takes no payload", tag)
	}
	q, err := types.ParseQuery(tag)
	if err != nil {
		return 0, malformed("%v", err)
	}
	return q, nil
}

func addresses(in []types.ActorAddress) []string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = a.String()
	}
	return out
}

func registryPairs(entries []types.RegistryEntry) [][2]any {
	out := make([][2]any, len(entries))
	for i, e := range entries {
		out[i] = [2]any{uint64(e.ID), recordWire{Field: e.Record.Field}}
	}
	return out
}

// EncodeQueryReply encodes a state export under its query's variant name
func EncodeQueryReply(r types.QueryReply) ([]byte, error) {
	var payload any
	switch r := r.(type) {
	case types.NumberReply:
		payload = uint64(r.Number)
	case types.CodeIDReply:
		payload = r.CodeID.String()
	case types.FactoryAdminAccountReply:
		payload = addresses(r.Admins)
	case types.GasForProgramReply:
		payload = r.Gas
	case types.IDToAddressReply:
		pairs := make([][2]any, len(r.Entries))
		for i, e := range r.Entries {
			pairs[i] = [2]any{uint64(e.ID), e.Address.String()}
		}
		payload = pairs
	case types.RegistryReply:
		pairs := make([][2]any, len(r.Creators))
		for i, c := range r.Creators {
			pairs[i] = [2]any{c.Creator.String(), registryPairs(c.Programs)}
		}
		payload = pairs
	default:
		return nil, fmt.Errorf("codec: unsupported query reply %T", r)
	}
	return variant(r.Query().String(), payload)
}

func splitPair(raw json.RawMessage) (json.RawMessage, json.RawMessage, error) {
	var pair []json.RawMessage
	if err := Unmarshal(raw, &pair); err != nil {
		return nil, nil, err
	}
	if len(pair) != 2 {
		return nil, nil, malformed("expected a pair, got %d elements", len(pair))
	}
	return pair[0], pair[1], nil
}

func decodeAddressList(raw json.RawMessage) ([]types.ActorAddress, error) {
	var list []string
	if err := Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	out := make([]types.ActorAddress, 0, len(list))
	for _, s := range list {
		a, err := parseAddress("address", s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAddressPairs(raw json.RawMessage) ([]types.AddressEntry, error) {
	var items []json.RawMessage
	if err := Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]types.AddressEntry, 0, len(items))
	for _, item := range items {
		idRaw, addrRaw, err := splitPair(item)
		if err != nil {
			return nil, err
		}
		var id uint64
		var s string
		if err := Unmarshal(idRaw, &id); err != nil {
			return nil, err
		}
		if err := Unmarshal(addrRaw, &s); err != nil {
			return nil, err
		}
		addr, err := parseAddress("address", s)
		if err != nil {
			return nil, err
		}
		out = append(out, types.AddressEntry{ID: types.ProgramID(id), Address: addr})
	}
	return out, nil
}

func decodeRegistryPairs(raw json.RawMessage) ([]types.CreatorEntry, error) {
	var items []json.RawMessage
	if err := Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]types.CreatorEntry, 0, len(items))
	for _, item := range items {
		creatorRaw, historyRaw, err := splitPair(item)
		if err != nil {
			return nil, err
		}
		var s string
		if err := Unmarshal(creatorRaw, &s); err != nil {
			return nil, err
		}
		creator, err := parseAddress("creator", s)
		if err != nil {
			return nil, err
		}

		var history []json.RawMessage
		if err := Unmarshal(historyRaw, &history); err != nil {
			return nil, err
		}
		programs := make([]types.RegistryEntry, 0, len(history))
		for _, h := range history {
			idRaw, recRaw, err := splitPair(h)
			if err != nil {
				return nil, err
			}
			var id uint64
			var rec recordWire
			if err := Unmarshal(idRaw, &id); err != nil {
				return nil, err
			}
			if err := requireFields("record", recRaw, "field"); err != nil {
				return nil, err
			}
			if err := Unmarshal(recRaw, &rec); err != nil {
				return nil, err
			}
			programs = append(programs, types.RegistryEntry{
				ID:     types.ProgramID(id),
				Record: types.Record{Field: rec.Field},
			})
		}
		out = append(out, types.CreatorEntry{Creator: creator, Programs: programs})
	}
	return out, nil
}

// DecodeQueryReply decodes a state export
func DecodeQueryReply(data []byte) (types.QueryReply, error) {
	tag, body, err := splitVariant(data)
	if err != nil {
		return nil, err
	}
	q, err := types.ParseQuery(tag)
	if err != nil {
		return nil, malformed("%v", err)
	}
	if err := requirePayload(tag, body); err != nil {
		return nil, err
	}

	switch q {
	case types.QueryNumber:
		var n uint64
		if err := Unmarshal(body, &n); err != nil {
			return nil, err
		}
		return types.NumberReply{Number: types.ProgramID(n)}, nil
	case types.QueryCodeID:
		var s string
		if err := Unmarshal(body, &s); err != nil {
			return nil, err
		}
		code, err := parseCode("code_id", s)
		if err != nil {
			return nil, err
		}
		return types.CodeIDReply{CodeID: code}, nil
	case types.QueryFactoryAdminAccount:
		admins, err := decodeAddressList(body)
		if err != nil {
			return nil, err
		}
		return types.FactoryAdminAccountReply{Admins: admins}, nil
	case types.QueryGasForProgram:
		var gas uint64
		if err := Unmarshal(body, &gas); err != nil {
			return nil, err
		}
		return types.GasForProgramReply{Gas: gas}, nil
	case types.QueryIDToAddress:
		entries, err := decodeAddressPairs(body)
		if err != nil {
			return nil, err
		}
		return types.IDToAddressReply{Entries: entries}, nil
	default:
		creators, err := decodeRegistryPairs(body)
		if err != nil {
			return nil, err
		}
		return types.RegistryReply{Creators: creators}, nil
	}
}
