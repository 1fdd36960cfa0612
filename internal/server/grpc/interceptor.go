package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accountKey ctxKey = "account"

// protectedMethods need a valid access token; the resolved account becomes
// the requester.
var protectedMethods = map[string]bool{
	wire.MethodCreatePost: true,
	wire.MethodUpdatePost: true,
	wire.MethodDeletePost: true,
	wire.MethodApplyVote:  true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		acc, err := s.users.Identify(accessToken)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, accountKey, acc)

	}

	return handler(ctx, req)
}

// delayInterceptor holds every ledger call except Ping for responseDelay.
func (s *GRPCServer) delayInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if s.responseDelay <= 0 || info.FullMethod == wire.MethodPing {
		return handler(ctx, req)
	}

	t := time.NewTimer(s.responseDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	case <-t.C:
	}
	return handler(ctx, req)
}

func requester(ctx context.Context) (models.Account, bool) {
	acc, ok := ctx.Value(accountKey).(models.Account)
	return acc, ok
}
