package middleware

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// APIGatewayHandler is a function that handles API Gateway requests
type APIGatewayHandler func(context.Context, *zap.Logger, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Chain applies middlewares right to left, so the first listed wraps the
// rest.
func Chain(handler APIGatewayHandler, middlewares ...func(APIGatewayHandler) APIGatewayHandler) APIGatewayHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
