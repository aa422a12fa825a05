package middleware

import (
	"context"
	goerrors "errors"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/domain/errors"
)

// RecoveryMiddleware is a middleware for recovering from panics and mapping
// handler errors to API responses
type RecoveryMiddleware struct{}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware() RecoveryMiddleware {
	return RecoveryMiddleware{}
}

// Handle handles the recovery middleware
func (m RecoveryMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				resp = response.Error(
					errors.NewInternalError("An unexpected error occurred", nil),
					request.RequestContext.RequestID)
				err = nil
			}
		}()

		resp, err = next(ctx, logger, request)
		if err != nil {
			// Convert the error to an AppError if it's not already
			var appErr errors.AppError
			if !goerrors.As(err, &appErr) {
				appErr = errors.NewInternalError("An unexpected error occurred", err)
			}

			logger.Error("request failed",
				zap.String("code", appErr.Code),
				zap.Error(appErr))
			return response.Error(appErr, request.RequestContext.RequestID), nil
		}

		return resp, nil
	}
}
