package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	tyx "github.com/kbajalc/tyx-core"
	"github.com/kbajalc/tyx-core/permission"
)

const (
	metadataAuthorization = "authorization"
	metadataRequestID     = "x-request-id"
)

// UnaryServerInterceptor runs gate.RemoteAuth for every unary call, using the
// permission registered in reg under the full gRPC method name. Methods
// missing from reg are rejected with Unimplemented.
func UnaryServerInterceptor(gate *tyx.Gate, reg *permission.Registry) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if gate == nil || reg == nil {
			return nil, status.Error(codes.Internal, tyx.ErrGateNotReady.Error())
		}
		perm, ok := reg.Lookup(info.FullMethod)
		if !ok {
			return nil, status.Error(codes.Unimplemented, permission.ErrMethodNotDefined.Error())
		}

		md, _ := metadata.FromIncomingContext(ctx)
		c, err := gate.RemoteAuth(ctx, tyx.RemoteRequest{
			RequestID: requestIDOr(first(md, metadataRequestID)),
			Token:     first(md, metadataAuthorization),
		}, perm)
		if err != nil {
			return nil, grpcError(err)
		}
		return handler(tyx.WithContext(ctx, c), req)
	}
}

// UnaryClientInterceptor attaches a freshly issued remote token addressed to
// peerID to every outgoing call. An empty peerID targets this application
// itself, producing an internal token.
func UnaryClientInterceptor(gate *tyx.Gate, peerID string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		token, err := gate.IssueToken(ctx, tyx.IssueRequest{
			Subject:  tyx.SubjectRemote,
			Audience: peerID,
			Role:     permission.RoleApplication,
		})
		if err != nil {
			return status.Errorf(codes.Unauthenticated, "issue remote token: %v", err)
		}

		pairs := []string{metadataAuthorization, "Bearer " + token}
		if c, ok := tyx.FromContext(ctx); ok && c.RequestID != "" {
			pairs = append(pairs, metadataRequestID, c.RequestID)
		}
		return invoker(metadata.AppendToOutgoingContext(ctx, pairs...), method, req, reply, cc, opts...)
	}
}

func first(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func grpcError(err error) error {
	var e *tyx.Error
	if !errors.As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}
	switch e.Kind {
	case tyx.KindBadRequest:
		return status.Error(codes.InvalidArgument, e.Error())
	case tyx.KindUnauthorized:
		return status.Error(codes.Unauthenticated, e.Error())
	case tyx.KindForbidden:
		return status.Error(codes.PermissionDenied, e.Error())
	default:
		return status.Error(codes.Internal, e.Error())
	}
}
