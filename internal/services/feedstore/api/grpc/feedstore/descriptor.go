package feedstore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name, also used as the
// health check service key.
const ServiceName = "feedstore.v1.FeedStoreService"

const (
	FeedStoreService_RetrieveFeed_FullMethodName     = "/" + ServiceName + "/RetrieveFeed"
	FeedStoreService_InsertFeed_FullMethodName       = "/" + ServiceName + "/InsertFeed"
	FeedStoreService_DeleteCachedFeed_FullMethodName = "/" + ServiceName + "/DeleteCachedFeed"
)

// FeedStoreServiceServer is the server API for the feed cache.
type FeedStoreServiceServer interface {
	RetrieveFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	InsertFeed(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeleteCachedFeed(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// UnimplementedFeedStoreServiceServer answers every method with Unimplemented.
type UnimplementedFeedStoreServiceServer struct{}

func (UnimplementedFeedStoreServiceServer) RetrieveFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RetrieveFeed not implemented")
}

func (UnimplementedFeedStoreServiceServer) InsertFeed(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method InsertFeed not implemented")
}

func (UnimplementedFeedStoreServiceServer) DeleteCachedFeed(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteCachedFeed not implemented")
}

// RegisterFeedStoreServiceServer registers srv on s.
func RegisterFeedStoreServiceServer(s grpc.ServiceRegistrar, srv FeedStoreServiceServer) {
	s.RegisterService(&FeedStoreService_ServiceDesc, srv)
}

func _FeedStoreService_RetrieveFeed_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServiceServer).RetrieveFeed(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FeedStoreService_RetrieveFeed_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedStoreServiceServer).RetrieveFeed(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _FeedStoreService_InsertFeed_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServiceServer).InsertFeed(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FeedStoreService_InsertFeed_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedStoreServiceServer).InsertFeed(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _FeedStoreService_DeleteCachedFeed_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServiceServer).DeleteCachedFeed(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FeedStoreService_DeleteCachedFeed_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedStoreServiceServer).DeleteCachedFeed(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// FeedStoreService_ServiceDesc describes feedstore.v1.FeedStoreService for
// grpc.ServiceRegistrar.RegisterService.
var FeedStoreService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedStoreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RetrieveFeed",
			Handler:    _FeedStoreService_RetrieveFeed_Handler,
		},
		{
			MethodName: "InsertFeed",
			Handler:    _FeedStoreService_InsertFeed_Handler,
		},
		{
			MethodName: "DeleteCachedFeed",
			Handler:    _FeedStoreService_DeleteCachedFeed_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "feedstore/v1/feedstore.proto",
}

// FeedStoreServiceClient is the client API for the feed cache.
type FeedStoreServiceClient interface {
	RetrieveFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	InsertFeed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeleteCachedFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type feedStoreServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewFeedStoreServiceClient returns a client calling through cc.
func NewFeedStoreServiceClient(cc grpc.ClientConnInterface) FeedStoreServiceClient {
	return &feedStoreServiceClient{cc: cc}
}

func (c *feedStoreServiceClient) RetrieveFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FeedStoreService_RetrieveFeed_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedStoreServiceClient) InsertFeed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, FeedStoreService_InsertFeed_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedStoreServiceClient) DeleteCachedFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, FeedStoreService_DeleteCachedFeed_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
