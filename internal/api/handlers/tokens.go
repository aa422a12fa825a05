package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/domain/token"
)

type formatTokensRequest struct {
	Raw string `json:"raw"`
}

type formatTokensResponse struct {
	Tokens        []token.Token `json:"tokens"`
	ReturnMessage string        `json:"returnMessage"`
}

// FormatTokens splits a pasted blob into candidate tokens and builds the
// ready-to-send return message for the valid and invalid ones.
func (h *Handler) FormatTokens(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req formatTokensRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid request body", requestID(request)), nil
	}
	if req.Raw == "" {
		return response.BadRequest("raw is required", requestID(request)), nil
	}

	tokens := token.FormatTokens(req.Raw)

	var valid, invalid []token.Token
	for _, t := range tokens {
		if t.Valid {
			valid = append(valid, t)
		} else {
			invalid = append(invalid, t)
		}
	}

	logger.Info("formatted tokens",
		zap.Int("total", len(tokens)),
		zap.Int("invalid", len(invalid)))

	return response.OK(formatTokensResponse{
		Tokens:        tokens,
		ReturnMessage: token.BuildReturnMessage(valid, invalid),
	}, requestID(request)), nil
}
