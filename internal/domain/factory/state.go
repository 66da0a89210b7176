package factory

import (
	"slices"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// State is the factory's process-wide mutable state
type State struct {
	number        types.ProgramID
	codeID        types.CodeID
	admins        []types.ActorAddress
	gasForProgram uint64
	idToAddress   map[types.ProgramID]types.ActorAddress
	registry      map[types.ActorAddress][]types.RegistryEntry

	// creators keeps registry keys in first-creation order, which is the
	// iteration order of registry scans and exports
	creators []types.ActorAddress
}

// NewState builds the initial state from the one-time init message
func NewState(init types.InitConfigFactory) *State {
	return &State{
		codeID:        init.CodeID,
		admins:        slices.Clone(init.Admins),
		gasForProgram: init.GasForProgram,
		idToAddress:   make(map[types.ProgramID]types.ActorAddress),
		registry:      make(map[types.ActorAddress][]types.RegistryEntry),
	}
}

// Number returns the highest id issued so far
func (s *State) Number() types.ProgramID { return s.number }

// CodeID returns the current code template
func (s *State) CodeID() types.CodeID { return s.codeID }

// GasForProgram returns the gas budget of each spawn
func (s *State) GasForProgram() uint64 { return s.gasForProgram }

// Admins returns a copy of the admin list in insertion order
func (s *State) Admins() []types.ActorAddress {
	return slices.Clone(s.admins)
}

// IsAdmin reports whether addr may mutate configuration
func (s *State) IsAdmin(addr types.ActorAddress) bool {
	return slices.Contains(s.admins, addr)
}

// Address returns the live address of a program
func (s *State) Address(id types.ProgramID) (types.ActorAddress, bool) {
	addr, ok := s.idToAddress[id]
	return addr, ok
}

// LiveCount returns the size of the id -> address index
func (s *State) LiveCount() int {
	return len(s.idToAddress)
}

// AddressEntries returns the id -> address index sorted by id
func (s *State) AddressEntries() []types.AddressEntry {
	out := make([]types.AddressEntry, 0, len(s.idToAddress))
	for id, addr := range s.idToAddress {
		out = append(out, types.AddressEntry{ID: id, Address: addr})
	}
	slices.SortFunc(out, func(a, b types.AddressEntry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// History returns a copy of one creator's program history
func (s *State) History(creator types.ActorAddress) []types.RegistryEntry {
	return slices.Clone(s.registry[creator])
}

// CreatorEntries returns the registry in first-creation order. A creator
// whose history became empty through removals is still listed.
func (s *State) CreatorEntries() []types.CreatorEntry {
	out := make([]types.CreatorEntry, 0, len(s.creators))
	for _, creator := range s.creators {
		out = append(out, types.CreatorEntry{
			Creator:  creator,
			Programs: slices.Clone(s.registry[creator]),
		})
	}
	return out
}

// record appends an entry to a creator's history, creating it if needed
func (s *State) record(creator types.ActorAddress, entry types.RegistryEntry) {
	if _, ok := s.registry[creator]; !ok {
		s.creators = append(s.creators, creator)
	}
	s.registry[creator] = append(s.registry[creator], entry)
}

// unrecord removes the first entry with id, scanning creators in order
func (s *State) unrecord(id types.ProgramID) bool {
	for _, creator := range s.creators {
		history := s.registry[creator]
		if pos := slices.IndexFunc(history, func(e types.RegistryEntry) bool { return e.ID == id }); pos >= 0 {
			s.registry[creator] = slices.Delete(history, pos, pos+1)
			return true
		}
	}
	return false
}
