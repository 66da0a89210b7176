package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ProgramID identifies a program created by the factory
type ProgramID uint64

// ActorAddress is the 32-byte address of an on-host actor
type ActorAddress [32]byte

// CodeID references an uploaded code bundle
type CodeID [32]byte

// ZeroAddress is the unset actor address
var ZeroAddress ActorAddress

// String returns the 0x-prefixed hex form
func (a ActorAddress) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is unset
func (a ActorAddress) IsZero() bool {
	return a == ZeroAddress
}

// String returns the 0x-prefixed hex form
func (c CodeID) String() string {
	return "0x" + hex.EncodeToString(c[:])
}

// IsZero reports whether the code reference is unset
func (c CodeID) IsZero() bool {
	return c == CodeID{}
}

// ParseActorAddress parses a 0x-prefixed (or bare) 64 character hex address
func ParseActorAddress(s string) (ActorAddress, error) {
	var a ActorAddress
	if err := decodeHex32(s, a[:]); err != nil {
		return ActorAddress{}, fmt.Errorf("invalid actor address %q: %w", s, err)
	}
	return a, nil
}

// ParseCodeID parses a 0x-prefixed (or bare) 64 character hex code id
func ParseCodeID(s string) (CodeID, error) {
	var c CodeID
	if err := decodeHex32(s, c[:]); err != nil {
		return CodeID{}, fmt.Errorf("invalid code id %q: %w", s, err)
	}
	return c, nil
}

// ParseActorAddresses parses a list of addresses, failing on the first bad entry
func ParseActorAddresses(raw []string) ([]ActorAddress, error) {
	out := make([]ActorAddress, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		a, err := ParseActorAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeHex32(s string, dst []byte) error {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != 64 {
		return fmt.Errorf("expected 64 hex characters, got %d", len(s))
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}
