package factory

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "factory.v1.Factory"

	MethodInit   = "/" + ServiceName + "/Init"
	MethodHandle = "/" + ServiceName + "/Handle"
	MethodQuery  = "/" + ServiceName + "/Query"

	// MetadataActorID carries the sender of Handle
	MetadataActorID = "x-actor-id"
)

// FactoryServer is the server API of factory.v1.Factory
type FactoryServer interface {
	Init(ctx context.Context, in *Frame) (*Frame, error)
	Handle(ctx context.Context, in *Frame) (*Frame, error)
	Query(ctx context.Context, in *Frame) (*Frame, error)
}

// RegisterFactoryServer registers srv on s
func RegisterFactoryServer(s grpc.ServiceRegistrar, srv FactoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler(method string, call func(FactoryServer, context.Context, *Frame) (*Frame, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Frame)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FactoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FactoryServer), ctx, req.(*Frame))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc of factory.v1.Factory
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FactoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Init",
			Handler:    unaryHandler(MethodInit, FactoryServer.Init),
		},
		{
			MethodName: "Handle",
			Handler:    unaryHandler(MethodHandle, FactoryServer.Handle),
		},
		{
			MethodName: "Query",
			Handler:    unaryHandler(MethodQuery, FactoryServer.Query),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "factory/v1/factory.proto",
}
