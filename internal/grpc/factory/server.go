package factory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// Factory is the invocation surface the server forwards to
type Factory interface {
	Init(ctx context.Context, init types.InitConfigFactory) error
	Handle(ctx context.Context, sender types.ActorAddress, action types.FactoryAction) (types.Result, error)
	Query(ctx context.Context, q types.Query) (types.QueryReply, error)
}

// CallRecorder receives per-call metrics
type CallRecorder interface {
	RecordGRPCCall(method, code string, duration time.Duration)
}

// Server implements FactoryServer over a Factory
type Server struct {
	factory Factory
	logger  *zap.Logger
}

var _ FactoryServer = (*Server)(nil)

// NewServer creates a gRPC server adapter for factory
func NewServer(factory Factory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{factory: factory, logger: logger.Named(logging.ComponentGRPC)}
}

// NewGRPCServer builds a grpc.Server with the factory service and the
// logging and metrics interceptors. Recorder may be nil.
func NewGRPCServer(factory Factory, recorder CallRecorder, logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	srv := NewServer(factory, logger)
	opts = append(opts, grpc.ChainUnaryInterceptor(srv.interceptor(recorder)))
	s := grpc.NewServer(opts...)
	RegisterFactoryServer(s, srv)
	return s
}

// Init applies the initialization message
func (s *Server) Init(ctx context.Context, in *Frame) (*Frame, error) {
	init, err := codec.DecodeInit(in.Payload)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.factory.Init(ctx, init); err != nil {
		return nil, toStatus(err)
	}
	return &Frame{}, nil
}

// Handle runs one command for the sender named in metadata
func (s *Server) Handle(ctx context.Context, in *Frame) (*Frame, error) {
	sender, err := senderFrom(ctx)
	if err != nil {
		return nil, err
	}
	action, err := codec.DecodeAction(in.Payload)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := s.factory.Handle(ctx, sender, action)
	if err != nil {
		return nil, toStatus(err)
	}
	payload, err := codec.EncodeResult(result)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &Frame{Payload: payload}, nil
}

// Query exports one state slice
func (s *Server) Query(ctx context.Context, in *Frame) (*Frame, error) {
	q, err := codec.DecodeQuery(in.Payload)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	reply, err := s.factory.Query(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}
	payload, err := codec.EncodeQueryReply(reply)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &Frame{Payload: payload}, nil
}

func senderFrom(ctx context.Context) (types.ActorAddress, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get(MetadataActorID)
	if len(values) == 0 {
		return types.ActorAddress{}, status.Error(codes.InvalidArgument, "missing "+MetadataActorID+" metadata")
	}
	addr, err := types.ParseActorAddress(values[0])
	if err != nil {
		return types.ActorAddress{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return addr, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, dispatch.ErrNotInitialized), errors.Is(err, dispatch.ErrAlreadyInitialized):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, dispatch.ErrStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *Server) interceptor(recorder CallRecorder) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)
		code := status.Code(err)

		if recorder != nil {
			recorder.RecordGRPCCall(info.FullMethod, code.String(), elapsed)
		}
		if err != nil {
			s.logger.Debug("gRPC call failed",
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
		}
		return resp, err
	}
}
