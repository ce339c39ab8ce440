package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, owner, duration and outcome. Client faults are logged
// at warn level and server faults at error level.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			userID := GetUserID(ctx) // empty if pre-auth

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", userID,
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}

			if err == nil {
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String())
			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				attrs = append(attrs, "error", connectErr.Message())
			} else {
				attrs = append(attrs, "error", err)
			}

			if isServerFault(code) {
				slog.Error("RPC error", attrs...)
			} else {
				slog.Warn("RPC error", attrs...)
			}
			return resp, err
		}
	}
}

func isServerFault(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
