package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// ErrMalformed marks input the codec cannot decode
var ErrMalformed = errors.New("codec: malformed message")

var api = sonic.ConfigStd

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Marshal encodes v with the codec's JSON configuration
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal decodes data with the codec's JSON configuration
func Unmarshal(data []byte, v any) error {
	if err := api.Unmarshal(data, v); err != nil {
		return malformed("%v", err)
	}
	return nil
}

func variant(tag string, payload any) ([]byte, error) {
	return api.Marshal(map[string]any{tag: payload})
}

// splitVariant returns the tag and payload of an externally tagged value;
// the payload is nil for bare-string variants
func splitVariant(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", nil, malformed("empty message")
	}
	if data[0] == '"' {
		var tag string
		if err := Unmarshal(data, &tag); err != nil {
			return "", nil, err
		}
		return tag, nil, nil
	}

	var obj map[string]json.RawMessage
	if err := Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, malformed("expected exactly one variant, got %d", len(obj))
	}
	for tag, body := range obj {
		return tag, body, nil
	}
	return "", nil, malformed("unreachable")
}

func requirePayload(tag string, body json.RawMessage) error {
	if body == nil {
		return malformed("variant %s requires a payload", tag)
	}
	return nil
}

// fielded wire forms list the keys a payload must carry, no more and no less
type fielded interface {
	wireFields() []string
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// requireFields checks that body is an object with exactly the named keys,
// none of them null
func requireFields(scope string, body json.RawMessage, names ...string) error {
	var obj map[string]json.RawMessage
	if err := Unmarshal(body, &obj); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}
	if obj == nil {
		return malformed("%s: expected an object", scope)
	}
	for _, name := range names {
		raw, ok := obj[name]
		if !ok || isNull(raw) {
			return malformed("%s: missing field %s", scope, name)
		}
	}
	for key := range obj {
		if !slices.Contains(names, key) {
			return malformed("%s: unknown field %q", scope, key)
		}
	}
	return nil
}

func decodeBody(tag string, body json.RawMessage, v any) error {
	if err := requirePayload(tag, body); err != nil {
		return err
	}
	if isNull(body) {
		return malformed("variant %s has a null payload", tag)
	}
	if f, ok := v.(fielded); ok {
		if err := requireFields(tag, body, f.wireFields()...); err != nil {
			return err
		}
	}
	if err := Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	return nil
}

func parseAddress(field, s string) (types.ActorAddress, error) {
	a, err := types.ParseActorAddress(s)
	if err != nil {
		return types.ActorAddress{}, malformed("%s: %v", field, err)
	}
	return a, nil
}

func parseCode(field, s string) (types.CodeID, error) {
	c, err := types.ParseCodeID(s)
	if err != nil {
		return types.CodeID{}, malformed("%s: %v", field, err)
	}
	return c, nil
}
