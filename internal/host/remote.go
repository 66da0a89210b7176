package host

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// Reply statuses reported by the host runtime
const (
	StatusPending = "pending"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// RemoteOptions configures a RemoteHost
type RemoteOptions struct {
	BaseURL        string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	RetryMax       int
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
}

// DefaultRemoteOptions returns production-ready client settings
func DefaultRemoteOptions(baseURL string) RemoteOptions {
	return RemoteOptions{
		BaseURL:        baseURL,
		PollInterval:   200 * time.Millisecond,
		RequestTimeout: 10 * time.Second,
		RetryMax:       3,
		RetryWaitMin:   100 * time.Millisecond,
		RetryWaitMax:   2 * time.Second,
	}
}

type spawnBody struct {
	CodeID   string      `json:"code_id"`
	Payload  payloadBody `json:"payload"`
	GasLimit uint64      `json:"gas_limit"`
	Value    uint64      `json:"value"`
}

type payloadBody struct {
	Field string `json:"field"`
}

type spawnAccepted struct {
	MessageID string `json:"message_id"`
}

type spawnReply struct {
	Status  string `json:"status"`
	Address string `json:"address,omitempty"`
	Error   string `json:"error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// RemoteHost spawns programs on an external host runtime over HTTP
type RemoteHost struct {
	client *resty.Client
	opts   RemoteOptions
	logger *zap.Logger
}

// NewRemoteHost creates a client of the host runtime at opts.BaseURL
func NewRemoteHost(opts RemoteOptions, logger *zap.Logger) *RemoteHost {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultRemoteOptions("").PollInterval
	}

	// Transport-level retries for connection errors and 5xx
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.RequestTimeout).
		SetHeader("User-Agent", "ProgramFactory-Host/1.0").
		SetJSONMarshaler(sonic.ConfigStd.Marshal).
		SetJSONUnmarshaler(sonic.ConfigStd.Unmarshal)

	return &RemoteHost{
		client: restyClient,
		opts:   opts,
		logger: logger.Named(logging.ComponentHost + ".remote"),
	}
}

// Spawn posts the instantiation request; any non-2xx answer is a synchronous refusal
func (h *RemoteHost) Spawn(ctx context.Context, req SpawnRequest) (Pending, error) {
	var accepted spawnAccepted
	var failure errorBody

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetBody(spawnBody{
			CodeID:   req.CodeID.String(),
			Payload:  payloadBody{Field: req.Payload.Field},
			GasLimit: req.GasLimit,
			Value:    req.Value,
		}).
		SetResult(&accepted).
		SetError(&failure).
		Post("/programs")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrSpawnRejected, resp.StatusCode(), failureText(failure, resp))
	}
	if strings.TrimSpace(accepted.MessageID) == "" {
		return nil, ErrMalformedReplyID
	}

	h.logger.Debug("Spawn accepted", zap.String("message_id", accepted.MessageID))

	messageID := accepted.MessageID
	return PendingFunc(func(ctx context.Context) (types.ActorAddress, error) {
		return h.await(ctx, messageID)
	}), nil
}

// await polls the reply endpoint until the host reports a final status
func (h *RemoteHost) await(ctx context.Context, messageID string) (types.ActorAddress, error) {
	ticker := time.NewTicker(h.opts.PollInterval)
	defer ticker.Stop()

	for {
		var reply spawnReply
		resp, err := h.client.R().
			SetContext(ctx).
			SetPathParam("id", messageID).
			SetResult(&reply).
			Get("/programs/replies/{id}")
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return types.ActorAddress{}, ctx.Err()
			}
			return types.ActorAddress{}, fmt.Errorf("%w: %v", ErrAcknowledgeLost, err)
		case resp.StatusCode() == http.StatusNotFound:
			return types.ActorAddress{}, fmt.Errorf("%w: unknown message %s", ErrAcknowledgeLost, messageID)
		case resp.IsError():
			return types.ActorAddress{}, fmt.Errorf("%w: status %d", ErrAcknowledgeLost, resp.StatusCode())
		}

		switch reply.Status {
		case StatusOK:
			addr, err := types.ParseActorAddress(reply.Address)
			if err != nil {
				return types.ActorAddress{}, fmt.Errorf("%w: %v", ErrMalformedReplyID, err)
			}
			return addr, nil
		case StatusFailed:
			return types.ActorAddress{}, fmt.Errorf("%w: %s", ErrSpawnRejected, reply.Error)
		case StatusPending, "":
		default:
			return types.ActorAddress{}, fmt.Errorf("%w: status %q", ErrMalformedReplyID, reply.Status)
		}

		select {
		case <-ctx.Done():
			return types.ActorAddress{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func failureText(body errorBody, resp *resty.Response) string {
	if body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(resp.String())
}
