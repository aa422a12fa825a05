package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs in to the portal and stores the resulting bearer token in the
// shared session, so that subsequent order and report calls are
// authenticated.
func (h *Handler) Login(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req loginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid request body", requestID(request)), nil
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest("email and password are required", requestID(request)), nil
	}

	bearer, err := h.login.Login(ctx, req.Email, req.Password)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	h.session.Set(bearer)

	logger.Info("logged in", zap.String("email", req.Email))

	return response.OK(map[string]interface{}{"loggedIn": true}, requestID(request)), nil
}
