// Package medhub is the HTTP adapter for the Bestway MedHub portal: order
// search and updates, the user probe, and login. The portal is consumed as
// an opaque REST API; its DynamoDB-shaped continuation keys are echoed back
// verbatim, never interpreted.
package medhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/common/config"
	apperrors "github.com/Liiaam93/token-tool/internal/domain/errors"
	"github.com/Liiaam93/token-tool/internal/domain/order"
)

// TokenProvider supplies the bearer token for portal calls. Implemented by
// Session; nil tokens are an authentication error, not a panic.
type TokenProvider interface {
	Token() (string, error)
}

// Client implements order.Repository and account.Prober against the portal.
type Client struct {
	http     *http.Client
	orderURL string
	userURL  string
	tokens   TokenProvider
	log      *zap.Logger
}

// NewClient creates a new portal client.
func NewClient(cfg *config.Config, tokens TokenProvider, log *zap.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		orderURL: cfg.OrderURL,
		userURL:  cfg.UserURL,
		tokens:   tokens,
		log:      log,
	}
}

// searchResponse is the portal's order search wire shape. Fields the newer
// portal revisions omit decode to their zero values.
type searchResponse struct {
	Items            []wireRecord `json:"items"`
	LastEvaluatedKey order.Cursor `json:"lastEvaluatedKey"`
}

// wireRecord mirrors order.Record but tolerates the portal's loose typing:
// totalTradePrice arrives as a number or a quoted string depending on the
// record's age.
type wireRecord struct {
	order.Record
	TotalTradePrice flexibleFloat `json:"totalTradePrice"`
}

// flexibleFloat decodes a JSON number, a quoted number, null or garbage,
// defaulting to zero.
type flexibleFloat float64

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*f = flexibleFloat(v)
	}
	return nil
}

// Search fetches one page of orders. A cursor on the request is serialized
// as lastEvaluatedKey.<field>.<type> query parameters, exactly as the portal
// returned it.
func (c *Client) Search(ctx context.Context, req order.SearchRequest) (order.Page, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(req.PageSize))
	if req.Page > 0 {
		params.Set("page", strconv.Itoa(req.Page))
	}
	if req.Status != "" {
		params.Set("recordStatus", req.Status)
	}
	if req.SearchText != "" {
		params.Set("searchText", req.SearchText)
	}
	if req.OrderDate != "" {
		params.Set("orderDate", req.OrderDate)
	}
	for field, value := range req.Cursor {
		if value.S != "" {
			params.Set(fmt.Sprintf("lastEvaluatedKey.%s.S", field), value.S)
		}
		if value.N != "" {
			params.Set(fmt.Sprintf("lastEvaluatedKey.%s.N", field), value.N)
		}
	}

	var wire searchResponse
	if err := c.get(ctx, c.orderURL+"?"+params.Encode(), &wire); err != nil {
		return order.Page{}, err
	}

	items := make([]order.Record, 0, len(wire.Items))
	for _, w := range wire.Items {
		rec := w.Record
		rec.TotalTradePrice = float64(w.TotalTradePrice)
		items = append(items, rec)
	}
	return order.Page{Items: items, Cursor: wire.LastEvaluatedKey}, nil
}

// Update applies one field update to one order.
func (c *Client) Update(ctx context.Context, req order.UpdateRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal order update", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPut, c.orderURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return apperrors.NewUpstreamError("order update request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("order update returned status %d", resp.StatusCode), nil).
			WithDetail("updateKey", req.UpdateKey)
	}
	return nil
}

// userResponse is the portal's user search wire shape. Some deployments
// wrap the payload in a Lambda proxy "body", sometimes as a JSON string.
type userResponse struct {
	Items []json.RawMessage `json:"items"`
	Body  json.RawMessage   `json:"body"`
}

// AccountActive reports whether an account number has an active portal user.
func (c *Client) AccountActive(ctx context.Context, accountNumber string) (bool, error) {
	params := url.Values{}
	params.Set("pageSize", "10")
	params.Set("searchText", accountNumber)
	params.Set("active", "true")

	var wire userResponse
	if err := c.get(ctx, c.userURL+"?"+params.Encode(), &wire); err != nil {
		return false, err
	}

	if len(wire.Items) > 0 {
		return true, nil
	}
	if len(wire.Body) == 0 {
		return false, nil
	}

	// Unwrap the proxy body; it may be a JSON string holding JSON.
	inner := wire.Body
	var asString string
	if err := json.Unmarshal(inner, &asString); err == nil {
		inner = json.RawMessage(asString)
	}
	var nested struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(inner, &nested); err != nil {
		return false, nil
	}
	return len(nested.Items) > 0, nil
}

// get issues an authorized GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError("portal request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("portal returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUpstreamError("malformed portal response", err)
	}
	return nil
}

// newRequest builds a request carrying the bearer token and a request id.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body *bytes.Reader) (*http.Request, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, apperrors.NewAuthenticationError("no portal session: " + err.Error())
	}

	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build portal request", err)
	}

	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}
