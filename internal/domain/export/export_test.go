package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ProgramFactory/internal/domain/factory"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
	"github.com/GriffinCanCode/ProgramFactory/internal/testutil"
)

func TestExportReflectsState(t *testing.T) {
	admin := testutil.Address(0xA)
	creatorB := testutil.Address(0xB)
	creatorE := testutil.Address(0xE)
	code := testutil.Code(0xC)

	state := factory.NewState(types.InitConfigFactory{
		CodeID:        code,
		Admins:        []types.ActorAddress{admin},
		GasForProgram: 100,
	})
	f := factory.New(state, &testutil.StaticSpawner{}, nil)

	ctx := context.Background()
	for _, c := range []struct {
		sender types.ActorAddress
		field  string
	}{{creatorE, "one"}, {creatorB, "two"}, {creatorE, "three"}} {
		_, err := f.CreateProgram(ctx, c.sender, types.InitConfig{Field: c.field})
		require.NoError(t, err)
	}
	_, err := f.RemoveRegistry(admin, 2)
	require.NoError(t, err)

	tests := []struct {
		query types.Query
		want  types.QueryReply
	}{
		{types.QueryNumber, types.NumberReply{Number: 3}},
		{types.QueryCodeID, types.CodeIDReply{CodeID: code}},
		{types.QueryFactoryAdminAccount, types.FactoryAdminAccountReply{Admins: []types.ActorAddress{admin}}},
		{types.QueryGasForProgram, types.GasForProgramReply{Gas: 100}},
		{types.QueryIDToAddress, types.IDToAddressReply{Entries: []types.AddressEntry{
			{ID: 1, Address: testutil.Address(1)},
			{ID: 3, Address: testutil.Address(3)},
		}}},
		{types.QueryRegistry, types.RegistryReply{Creators: []types.CreatorEntry{
			{Creator: creatorE, Programs: []types.RegistryEntry{
				{ID: 1, Record: types.Record{Field: "one"}},
				{ID: 3, Record: types.Record{Field: "three"}},
			}},
			{Creator: creatorB, Programs: []types.RegistryEntry{}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.query.String(), func(t *testing.T) {
			got, err := Export(state, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.query, got.Query())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportDoesNotAlias(t *testing.T) {
	admin := testutil.Address(0xA)
	state := factory.NewState(types.InitConfigFactory{Admins: []types.ActorAddress{admin}})

	reply, err := Export(state, types.QueryFactoryAdminAccount)
	require.NoError(t, err)
	reply.(types.FactoryAdminAccountReply).Admins[0] = testutil.Address(0xFF)

	assert.Equal(t, []types.ActorAddress{admin}, state.Admins())
}

func TestExportUnknownQuery(t *testing.T) {
	state := factory.NewState(types.InitConfigFactory{})

	_, err := Export(state, types.Query(99))
	assert.Error(t, err)
}
