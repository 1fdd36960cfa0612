package wire

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "voices.Ledger"

// Full method names, as seen by interceptors.
const (
	MethodRegister   = "/" + ServiceName + "/Register"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodListPosts  = "/" + ServiceName + "/ListPosts"
	MethodCreatePost = "/" + ServiceName + "/CreatePost"
	MethodUpdatePost = "/" + ServiceName + "/UpdatePost"
	MethodDeletePost = "/" + ServiceName + "/DeletePost"
	MethodApplyVote  = "/" + ServiceName + "/ApplyVote"
	MethodPing       = "/" + ServiceName + "/Ping"
)

// LedgerServer is implemented by the gRPC transport of the server.
type LedgerServer interface {
	Register(context.Context, *CredentialsRequest) (*AuthResponse, error)
	Login(context.Context, *CredentialsRequest) (*AuthResponse, error)
	ListPosts(context.Context, *ListPostsRequest) (*ListPostsResponse, error)
	CreatePost(context.Context, *CreatePostRequest) (*PostResponse, error)
	UpdatePost(context.Context, *UpdatePostRequest) (*PostResponse, error)
	DeletePost(context.Context, *DeletePostRequest) (*DeletePostResponse, error)
	ApplyVote(context.Context, *ApplyVoteRequest) (*PostResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// unaryHandler adapts a typed LedgerServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, LedgerServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, LedgerServer.Login)},
		{MethodName: "ListPosts", Handler: unaryHandler(MethodListPosts, LedgerServer.ListPosts)},
		{MethodName: "CreatePost", Handler: unaryHandler(MethodCreatePost, LedgerServer.CreatePost)},
		{MethodName: "UpdatePost", Handler: unaryHandler(MethodUpdatePost, LedgerServer.UpdatePost)},
		{MethodName: "DeletePost", Handler: unaryHandler(MethodDeletePost, LedgerServer.DeletePost)},
		{MethodName: "ApplyVote", Handler: unaryHandler(MethodApplyVote, LedgerServer.ApplyVote)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, LedgerServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "voices/ledger",
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerClient calls the ledger over a client connection using the JSON codec.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) Register(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[CredentialsRequest, AuthResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *LedgerClient) Login(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[CredentialsRequest, AuthResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *LedgerClient) ListPosts(ctx context.Context, in *ListPostsRequest, opts ...grpc.CallOption) (*ListPostsResponse, error) {
	return invoke[ListPostsRequest, ListPostsResponse](ctx, c.cc, MethodListPosts, in, opts)
}

func (c *LedgerClient) CreatePost(ctx context.Context, in *CreatePostRequest, opts ...grpc.CallOption) (*PostResponse, error) {
	return invoke[CreatePostRequest, PostResponse](ctx, c.cc, MethodCreatePost, in, opts)
}

func (c *LedgerClient) UpdatePost(ctx context.Context, in *UpdatePostRequest, opts ...grpc.CallOption) (*PostResponse, error) {
	return invoke[UpdatePostRequest, PostResponse](ctx, c.cc, MethodUpdatePost, in, opts)
}

func (c *LedgerClient) DeletePost(ctx context.Context, in *DeletePostRequest, opts ...grpc.CallOption) (*DeletePostResponse, error) {
	return invoke[DeletePostRequest, DeletePostResponse](ctx, c.cc, MethodDeletePost, in, opts)
}

func (c *LedgerClient) ApplyVote(ctx context.Context, in *ApplyVoteRequest, opts ...grpc.CallOption) (*PostResponse, error) {
	return invoke[ApplyVoteRequest, PostResponse](ctx, c.cc, MethodApplyVote, in, opts)
}

func (c *LedgerClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, MethodPing, in, opts)
}
