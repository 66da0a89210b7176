package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ProgramFactory/internal/api/middleware"
	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
	"github.com/GriffinCanCode/ProgramFactory/internal/testutil"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.Server.GRPCEnabled = false
	cfg.RateLimit.Enabled = false
	cfg.Runtime.StrictCodes = true
	return cfg
}

func post(h http.Handler, path, body string, sender *types.ActorAddress) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	if sender != nil {
		req.Header.Set(middleware.HeaderActorID, sender.String())
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServerWithConfiguredInit(t *testing.T) {
	cfg := testConfig()
	cfg.Factory.CodeID = testutil.Code(0xC).String()
	cfg.Factory.Admins = []string{testutil.Address(0xA).String()}

	srv, err := NewServer(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	creator := testutil.Address(0xB)
	w := post(srv.Router(), "/command", `{"CreateProgram":{"init_config":{"field":"x"}}}`, &creator)
	require.Equal(t, http.StatusOK, w.Code)

	res, err := codec.DecodeResult(w.Body.Bytes())
	require.NoError(t, err)
	require.True(t, res.IsOk(), "strict memory host must know the init code")

	// the spawned address comes from the memory host
	created := res.Event.(types.ProgramCreated)
	assert.False(t, created.Address.IsZero())
	require.Len(t, srv.memory.Programs(), 1)
	assert.Equal(t, created.Address, srv.memory.Programs()[0].Address)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `factory_commands_total{action="CreateProgram",outcome="ok"} 1`)
}

func TestServerInitOverHTTP(t *testing.T) {
	srv, err := NewServer(testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	body, err := codec.EncodeInit(types.InitConfigFactory{
		CodeID:        testutil.Code(0xD),
		Admins:        []types.ActorAddress{testutil.Address(0xA)},
		GasForProgram: 1,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, post(srv.Router(), "/init", string(body), nil).Code)

	creator := testutil.Address(0xB)
	w := post(srv.Router(), "/command", `{"CreateProgram":{"init_config":{"field":"y"}}}`, &creator)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Ok"`)
}

func TestServerRejectsBadInit(t *testing.T) {
	cfg := testConfig()
	cfg.Factory.CodeID = "0xbad"

	_, err := NewServer(cfg, nil)
	assert.Error(t, err)
}
