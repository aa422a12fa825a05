package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/domain/account"
)

type checkAccountsRequest struct {
	Accounts string `json:"accounts"`
}

type checkAccountsResponse struct {
	Results map[string]bool `json:"results"`
}

// CheckAccounts probes each account number in a pasted list against the
// portal and reports which ones are active.
func (h *Handler) CheckAccounts(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req checkAccountsRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid request body", requestID(request)), nil
	}

	accounts := account.ParseAccountList(req.Accounts)
	if len(accounts) == 0 {
		return response.BadRequest("accounts must contain at least one account number", requestID(request)), nil
	}

	results := h.accounts.CheckAccounts(ctx, accounts)

	logger.Info("checked accounts", zap.Int("count", len(results)))

	return response.OK(checkAccountsResponse{Results: results}, requestID(request)), nil
}
