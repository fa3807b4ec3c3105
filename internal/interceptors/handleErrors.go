package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
)

// ErrorInterceptor converts domain errors to gRPC statuses. Errors that
// already carry a status pass through unchanged.
func ErrorInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, handleGrpcError(ctx, logger, info.FullMethod, err)
		}
		return resp, nil
	}
}

func handleGrpcError(ctx context.Context, logger logging.Logger, method string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	if !customerrors.IsClientError(err) {
		logger.Error(ctx, "rpc failed", "method", method, "error", err)
	}
	return status.Error(customerrors.GetGRPCCode(err), customerrors.GetMessage(err))
}
