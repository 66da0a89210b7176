package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// DefaultCallTimeout applies to calls whose context has no deadline. It
// covers a full spawn wait.
const DefaultCallTimeout = 35 * time.Second

// Client is a gRPC client of factory.v1.Factory with a circuit breaker
type Client struct {
	conn    *grpc.ClientConn
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

var _ Factory = (*Client)(nil)

// Dial creates a client for addr. Extra options are appended to the
// defaults, which use plaintext transport.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                60 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}

	conn, err := grpc.NewClient(addr, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial factory: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "factory-grpc",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.5)
		},
		// Only transport trouble counts against the breaker
		IsSuccessful: func(err error) bool {
			switch status.Code(err) {
			case codes.Unavailable, codes.DeadlineExceeded, codes.Internal:
				return false
			default:
				return true
			}
		},
	})

	return &Client{conn: conn, breaker: breaker, timeout: DefaultCallTimeout}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, method string, payload []byte) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.breaker.Execute(func() (any, error) {
		resp := new(Frame)
		if err := c.conn.Invoke(ctx, method, &Frame{Payload: payload}, resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, fmt.Errorf("factory service unavailable: %w", err)
	}
	if err != nil {
		return nil, fromStatus(err)
	}
	return out.(*Frame).Payload, nil
}

// Init sends the initialization message
func (c *Client) Init(ctx context.Context, init types.InitConfigFactory) error {
	payload, err := codec.EncodeInit(init)
	if err != nil {
		return err
	}
	_, err = c.invoke(ctx, MethodInit, payload)
	return err
}

// Handle sends one command as sender
func (c *Client) Handle(ctx context.Context, sender types.ActorAddress, action types.FactoryAction) (types.Result, error) {
	payload, err := codec.EncodeAction(action)
	if err != nil {
		return types.Result{}, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, MetadataActorID, sender.String())
	reply, err := c.invoke(ctx, MethodHandle, payload)
	if err != nil {
		return types.Result{}, err
	}
	return codec.DecodeResult(reply)
}

// Query fetches one state slice
func (c *Client) Query(ctx context.Context, q types.Query) (types.QueryReply, error) {
	payload, err := codec.EncodeQuery(q)
	if err != nil {
		return nil, err
	}
	reply, err := c.invoke(ctx, MethodQuery, payload)
	if err != nil {
		return nil, err
	}
	return codec.DecodeQueryReply(reply)
}

// fromStatus restores harness errors carried by a status
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, known := range []error{dispatch.ErrNotInitialized, dispatch.ErrAlreadyInitialized, dispatch.ErrStopped} {
		if st.Message() == known.Error() {
			return known
		}
	}
	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w", st.Message(), context.DeadlineExceeded)
	case codes.Canceled:
		return fmt.Errorf("%s: %w", st.Message(), context.Canceled)
	}
	return err
}
