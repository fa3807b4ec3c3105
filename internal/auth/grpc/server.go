// Package grpc exposes token introspection to internal callers. Messages are
// protobuf well-known types, so the service needs no generated code.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"mimoapp/internal/auth/service"
)

const (
	ServiceName       = "mimoapp.auth.v1.TokenService"
	ResolveFullMethod = "/" + ServiceName + "/Resolve"
)

type TokenServiceServer interface {
	// Resolve maps a bearer token to the user it identifies.
	Resolve(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

type Server struct {
	authService service.AuthService
}

func NewServer(authService service.AuthService) *Server {
	return &Server{authService: authService}
}

func (s *Server) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	user, err := s.authService.ResolveCurrentUser(ctx, req.GetValue())
	if err != nil {
		return nil, err
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"id":       structpb.NewNumberValue(float64(user.ID)),
			"username": structpb.NewStringValue(user.Username),
			"email":    structpb.NewStringValue(user.Email),
		},
	}, nil
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TokenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Resolve",
			Handler:    resolveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mimoapp/auth/v1/token.proto",
}

func RegisterTokenServiceServer(s grpc.ServiceRegistrar, srv TokenServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ResolveFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type TokenServiceClient interface {
	Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type tokenServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTokenServiceClient(cc grpc.ClientConnInterface) TokenServiceClient {
	return &tokenServiceClient{cc: cc}
}

func (c *tokenServiceClient) Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ResolveFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
