// Package handlers routes the console's API Gateway requests to the domain
// services.
package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/common/config"
	"github.com/Liiaam93/token-tool/internal/domain/account"
	"github.com/Liiaam93/token-tool/internal/domain/order"
	"github.com/Liiaam93/token-tool/internal/domain/report"
	"github.com/Liiaam93/token-tool/internal/platform/medhub"
)

// Handler holds the console's services and routes requests to them.
type Handler struct {
	orders   *order.Service
	reports  *report.Service
	accounts *account.Service
	login    *medhub.LoginClient
	session  *medhub.Session
	cfg      *config.Config
}

// NewHandler creates a new console handler
func NewHandler(
	orders *order.Service,
	reports *report.Service,
	accounts *account.Service,
	login *medhub.LoginClient,
	session *medhub.Session,
	cfg *config.Config,
) *Handler {
	return &Handler{
		orders:   orders,
		reports:  reports,
		accounts: accounts,
		login:    login,
		session:  session,
		cfg:      cfg,
	}
}

// Route dispatches one request by method and path.
func (h *Handler) Route(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// CORS preflight
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    response.DefaultHeaders(),
		}, nil
	}

	switch {
	case request.HTTPMethod == http.MethodPost && request.Path == "/tokens/format":
		return h.FormatTokens(ctx, logger, request)
	case request.HTTPMethod == http.MethodPost && request.Path == "/barcode/corrections":
		return h.BarcodeCorrections(ctx, logger, request)
	case request.HTTPMethod == http.MethodGet && request.Path == "/orders":
		return h.SearchOrders(ctx, logger, request)
	case request.HTTPMethod == http.MethodPut && request.Path == "/orders":
		return h.UpdateOrder(ctx, logger, request)
	case request.HTTPMethod == http.MethodGet && request.Path == "/report":
		return h.GenerateReport(ctx, logger, request)
	case request.HTTPMethod == http.MethodPost && request.Path == "/accounts/check":
		return h.CheckAccounts(ctx, logger, request)
	case request.HTTPMethod == http.MethodPost && request.Path == "/login":
		return h.Login(ctx, logger, request)
	default:
		return response.NotFound("Endpoint not found"), nil
	}
}

func requestID(request events.APIGatewayProxyRequest) string {
	return request.RequestContext.RequestID
}
