package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ProgramFactory/internal/api/middleware"
	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	"github.com/GriffinCanCode/ProgramFactory/internal/host"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
	"github.com/GriffinCanCode/ProgramFactory/internal/testutil"
)

var (
	adminA   = testutil.Address(0xA)
	creatorB = testutil.Address(0xB)
)

func setupRouter(t *testing.T) (*gin.Engine, *dispatch.Actor) {
	return setupRouterWith(t, &testutil.StaticSpawner{})
}

func setupRouterWith(t *testing.T, spawner host.Spawner) (*gin.Engine, *dispatch.Actor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	actor := dispatch.New(dispatch.DefaultConfig(), spawner, metrics, nil)
	actor.Start()
	t.Cleanup(actor.Stop)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.BodyLimit(4096))
	NewHandlers(actor, metrics, nil).Register(router)
	return router, actor
}

func do(router *gin.Engine, method, path, body string, sender *types.ActorAddress) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if sender != nil {
		req.Header.Set(middleware.HeaderActorID, sender.String())
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func initBody(t *testing.T) string {
	t.Helper()
	data, err := codec.EncodeInit(types.InitConfigFactory{
		CodeID:        testutil.Code(0xC),
		Admins:        []types.ActorAddress{adminA},
		GasForProgram: 100,
	})
	require.NoError(t, err)
	return string(data)
}

func TestInitOnce(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(router, http.MethodPost, "/init", initBody(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, "/init", initBody(t), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(router, http.MethodPost, "/init", `{"code_id":"nope"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommandBeforeInit(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(router, http.MethodPost, "/command", `{"CreateProgram":{"init_config":{"field":"x"}}}`, &creatorB)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCommandFlow(t *testing.T) {
	router, _ := setupRouter(t)
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/init", initBody(t), nil).Code)

	w := do(router, http.MethodPost, "/command", `{"CreateProgram":{"init_config":{"field":"x"}}}`, &creatorB)
	require.Equal(t, http.StatusOK, w.Code)
	res, err := codec.DecodeResult(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, types.ProgramCreated{ID: 1, Address: testutil.Address(1), InitConfig: types.InitConfig{Field: "x"}}, res.Event)

	// operation errors are replies, not transport failures
	w = do(router, http.MethodPost, "/command", `{"UpdateGasProgram":5}`, &creatorB)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Err":"Unauthorized"}`, w.Body.String())

	w = do(router, http.MethodPost, "/command", `{"RemoveRegistry":{"id":7}}`, &adminA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Err":"IdNotFoundInAddress"}`, w.Body.String())

	w = do(router, http.MethodGet, "/state/Number", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Number":1}`, w.Body.String())

	w = do(router, http.MethodPost, "/query", `"IdToAddress"`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"IdToAddress":[[1,"`+testutil.Address(1).String()+`"]]}`, w.Body.String())
}

func TestMalformedInput(t *testing.T) {
	router, _ := setupRouter(t)
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/init", initBody(t), nil).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		sender *types.ActorAddress
	}{
		{"unknown action", http.MethodPost, "/command", `{"Launch":{}}`, &creatorB},
		{"missing sender", http.MethodPost, "/command", `{"UpdateGasProgram":5}`, nil},
		{"unknown query body", http.MethodPost, "/query", `"Everything"`, nil},
		{"unknown query path", http.MethodGet, "/state/Everything", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, tt.body, tt.sender)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestMetaAndHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(router, http.MethodGet, "/meta", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "InitConfigFactory")

	w = do(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestStoppedActor(t *testing.T) {
	router, actor := setupRouter(t)
	actor.Stop()

	w := do(router, http.MethodGet, "/state/Number", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChunkedBodyOverLimit(t *testing.T) {
	router, _ := setupRouter(t)

	big := `{"CreateProgram":{"init_config":{"field":"` + strings.Repeat("x", 8192) + `"}}}`
	req := httptest.NewRequest(http.MethodPost, "/command", io.NopCloser(strings.NewReader(big)))
	req.ContentLength = -1
	req.Header.Set(middleware.HeaderActorID, creatorB.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCanceledCommandReportsUnknownOutcome(t *testing.T) {
	gate := testutil.NewGateSpawner(testutil.Address(9))
	router, actor := setupRouterWith(t, gate)
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/init", initBody(t), nil).Code)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(`{"CreateProgram":{"init_config":{"field":"x"}}}`)).WithContext(ctx)
	req.Header.Set(middleware.HeaderActorID, creatorB.String())
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(done)
	}()

	<-gate.Issued
	cancel()
	<-done

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"unknown"`)
	assert.Contains(t, w.Body.String(), "query Number")

	gate.Release()
	reply, err := actor.Query(context.Background(), types.QueryNumber)
	require.NoError(t, err)
	assert.Equal(t, types.NumberReply{Number: 1}, reply)
}
