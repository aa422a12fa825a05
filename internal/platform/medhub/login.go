package medhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/common/config"
	apperrors "github.com/Liiaam93/token-tool/internal/domain/errors"
)

// activeSessionMessage is the portal's rejection when the account is already
// logged in elsewhere; a hard logout clears every session and login retries.
const activeSessionMessage = "User already has an active session"

// LoginClient authenticates against the portal user service.
type LoginClient struct {
	http        *http.Client
	loginURL    string
	logoutURL   string
	productCode string
	log         *zap.Logger
}

// NewLoginClient creates a new login client. The logout endpoint lives next
// to the login one.
func NewLoginClient(cfg *config.Config, log *zap.Logger) *LoginClient {
	return &LoginClient{
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		loginURL:    cfg.LoginURL,
		logoutURL:   strings.TrimSuffix(cfg.LoginURL, "/login") + "/logout",
		productCode: cfg.ProductCode,
		log:         log,
	}
}

type loginResponse struct {
	AccessToken string `json:"AccessToken"`
	IDToken     string `json:"IdToken"`
}

type loginErrorResponse struct {
	Error struct {
		Message    string `json:"message"`
		ErrorCode  string `json:"errorCode"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
}

// Login authenticates and returns the composite bearer token the portal
// expects on every subsequent call. When the portal reports an active
// session elsewhere, all sessions are hard-logged-out and login is retried
// once.
func (c *LoginClient) Login(ctx context.Context, email, password string) (string, error) {
	token, err := c.tryLogin(ctx, email, password)
	if err == nil {
		return token, nil
	}

	var appErr apperrors.AppError
	hasActiveSession := false
	if e, ok := err.(apperrors.AppError); ok {
		appErr = e
		if msg, _ := appErr.Details["portalMessage"].(string); msg == activeSessionMessage {
			hasActiveSession = true
		}
	}
	if !hasActiveSession {
		return "", err
	}

	c.log.Info("active session detected, forcing logout and retrying",
		zap.String("email", email))
	if err := c.logout(ctx, email); err != nil {
		return "", err
	}
	return c.tryLogin(ctx, email, password)
}

func (c *LoginClient) tryLogin(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{
		"email":       email,
		"password":    password,
		"productCode": c.productCode,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewInternalError("failed to build login request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.NewUpstreamError("login request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var wire loginErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&wire)
		return "", apperrors.NewAuthenticationError(
			fmt.Sprintf("login failed with status %d", resp.StatusCode)).
			WithDetail("portalMessage", wire.Error.Message)
	}

	var wire loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return "", apperrors.NewUpstreamError("malformed login response", err)
	}
	if wire.AccessToken == "" || wire.IDToken == "" {
		return "", apperrors.NewAuthenticationError("login response missing tokens")
	}

	return "Bearer " + wire.AccessToken + "-id-token-" + wire.IDToken, nil
}

func (c *LoginClient) logout(ctx context.Context, email string) error {
	payload := map[string]string{
		"email":       email,
		"logout":      "hard",
		"productCode": c.productCode,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.logoutURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError("failed to build logout request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError("logout request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("logout returned status %d", resp.StatusCode), nil)
	}
	return nil
}
