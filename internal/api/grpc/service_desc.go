package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "userdirectory.v1.UserDirectory"

// UserDirectoryServer is the server API for the UserDirectory service.
// Requests and responses are untyped google.protobuf.Struct values.
type UserDirectoryServer interface {
	ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ArchiveUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// UserDirectoryServiceDesc describes the UserDirectory service for grpc.Server.RegisterService.
var UserDirectoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserDirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListUsers", Handler: unaryHandler("ListUsers", UserDirectoryServer.ListUsers)},
		{MethodName: "CreateUser", Handler: unaryHandler("CreateUser", UserDirectoryServer.CreateUser)},
		{MethodName: "UpdateUser", Handler: unaryHandler("UpdateUser", UserDirectoryServer.UpdateUser)},
		{MethodName: "ArchiveUser", Handler: unaryHandler("ArchiveUser", UserDirectoryServer.ArchiveUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userdirectory/v1/user_directory.proto",
}

// RegisterUserDirectoryServer registers srv on s.
func RegisterUserDirectoryServer(s grpc.ServiceRegistrar, srv UserDirectoryServer) {
	s.RegisterService(&UserDirectoryServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryMethod func(UserDirectoryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserDirectoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserDirectoryServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
