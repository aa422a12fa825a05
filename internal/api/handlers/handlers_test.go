package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/common/config"
	"github.com/Liiaam93/token-tool/internal/domain/account"
	"github.com/Liiaam93/token-tool/internal/domain/order"
	"github.com/Liiaam93/token-tool/internal/domain/report"
	"github.com/Liiaam93/token-tool/internal/platform/medhub"
)

type fakeRepository struct {
	mu      sync.Mutex
	pages   []order.Page
	calls   int
	err     error
	updates []order.UpdateRequest
}

func (r *fakeRepository) Search(ctx context.Context, req order.SearchRequest) (order.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return order.Page{}, r.err
	}
	if r.calls >= len(r.pages) {
		return order.Page{}, nil
	}
	page := r.pages[r.calls]
	r.calls++
	return page, nil
}

func (r *fakeRepository) Update(ctx context.Context, req order.UpdateRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, req)
	return nil
}

func (r *fakeRepository) AccountActive(ctx context.Context, accountNumber string) (bool, error) {
	return accountNumber == "NCC123", nil
}

func newTestHandler(t *testing.T, repo *fakeRepository) *Handler {
	t.Helper()
	logger := zap.NewNop()
	orders := order.NewService(repo, 200, 8, 2, logger)
	reports := report.NewService(orders, logger)
	accounts := account.NewService(repo, logger)
	cfg := &config.Config{RequestTimeout: 5 * time.Second}
	return NewHandler(orders, reports, accounts, nil, medhub.NewSession(), cfg)
}

func getRequest(path string, params map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  path,
		QueryStringParameters: params,
	}
}

func postRequest(t *testing.T, path string, body interface{}) events.APIGatewayProxyRequest {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       path,
		Body:       string(raw),
	}
}

func decodeData(t *testing.T, resp events.APIGatewayProxyResponse) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestRoute_UnknownPath(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})
	resp, err := h.Route(context.Background(), zap.NewNop(), getRequest("/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoute_CORSPreflight(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})
	resp, err := h.Route(context.Background(), zap.NewNop(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodOptions,
		Path:       "/orders",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
}

func TestFormatTokens(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})
	req := postRequest(t, "/tokens/format", map[string]string{
		"raw": "abcdef123456abcdef abcdef123456abcd",
	})

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	tokens := data["tokens"].([]interface{})
	require.Len(t, tokens, 2)
	first := tokens[0].(map[string]interface{})
	assert.Equal(t, true, first["valid"])
	assert.Contains(t, data["returnMessage"], "ABCDEF-123456-ABCDEF")
}

func TestFormatTokens_BadBody(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})
	resp, err := h.Route(context.Background(), zap.NewNop(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/tokens/format",
		Body:       "{not json",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBarcodeCorrections(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})
	req := postRequest(t, "/barcode/corrections", map[string]string{
		"barcode": "1BCDEF-A12345-XYZXYZ",
	})

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	corrections := data["corrections"].([]interface{})
	assert.Contains(t, corrections, "IBCDEF-A12345-XYZXYZ")
	assert.Contains(t, corrections, "LBCDEF-A12345-XYZXYZ")
}

func TestBarcodeCorrections_MalformedBarcodeReturnsEmptyList(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})
	req := postRequest(t, "/barcode/corrections", map[string]string{
		"barcode": "not-a-barcode",
	})

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	assert.Empty(t, data["corrections"])
}

func TestSearchOrders(t *testing.T) {
	repo := &fakeRepository{pages: []order.Page{{
		Items: []order.Record{
			{ID: "a", OrderType: order.TypeEPS, RecordStatus: "Order placed"},
			{ID: "b", OrderType: order.TypeTrade, RecordStatus: "Order placed"},
		},
	}}}
	h := newTestHandler(t, repo)

	resp, err := h.Route(context.Background(), zap.NewNop(), getRequest("/orders", map[string]string{
		"status":    "Ordered",
		"orderType": "eps",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	records := data["records"].([]interface{})
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].(map[string]interface{})["id"])
	assert.Equal(t, false, data["partial"])
	assert.Equal(t, 1, repo.calls)
}

func TestSearchOrders_FullFailureIsReturnedAsError(t *testing.T) {
	repo := &fakeRepository{err: assert.AnError}
	h := newTestHandler(t, repo)

	_, err := h.Route(context.Background(), zap.NewNop(), getRequest("/orders", map[string]string{
		"status": "Ordered",
	}))
	require.Error(t, err)
}

func TestUpdateOrder(t *testing.T) {
	repo := &fakeRepository{}
	h := newTestHandler(t, repo)

	req := postRequest(t, "/orders", map[string]string{
		"email":      "pharmacy@example.com",
		"id":         "order-1",
		"modifiedBy": "agent",
		"comment":    "called back",
	})
	req.HTTPMethod = http.MethodPut

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, repo.updates)
	assert.Equal(t, "order_open", repo.updates[0].UpdateKey)
}

func TestUpdateOrder_MissingRequiredFields(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})

	req := postRequest(t, "/orders", map[string]string{"id": "order-1"})
	req.HTTPMethod = http.MethodPut

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateReport(t *testing.T) {
	repo := &fakeRepository{pages: []order.Page{{
		Items: []order.Record{
			{ID: "a", OrderType: order.TypeEPS, RecordStatus: "Order placed", PharmacyAccountNumber: "NCC1"},
		},
	}}}
	h := newTestHandler(t, repo)

	resp, err := h.Route(context.Background(), zap.NewNop(), getRequest("/report", map[string]string{
		"orderType": "eps",
		"fast":      "true",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	assert.NotEmpty(t, data["tsv"])
	rep := data["report"].(map[string]interface{})
	assert.Equal(t, "eps", rep["orderType"])
}

func TestGenerateReport_RejectsUnknownOrderType(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})

	resp, err := h.Route(context.Background(), zap.NewNop(), getRequest("/report", map[string]string{
		"orderType": "wholesale",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckAccounts(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})

	req := postRequest(t, "/accounts/check", map[string]string{
		"accounts": "NCC123\nUCP999",
	})

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	results := data["results"].(map[string]interface{})
	assert.Equal(t, true, results["NCC123"])
	assert.Equal(t, false, results["UCP999"])
}

func TestCheckAccounts_EmptyList(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})

	req := postRequest(t, "/accounts/check", map[string]string{"accounts": "  \n "})
	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_StoresSessionToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"AccessToken": "access",
			"IdToken":     "id",
		})
	}))
	defer server.Close()

	cfg := &config.Config{
		LoginURL:       server.URL + "/user/login",
		ProductCode:    "fp",
		RequestTimeout: 5 * time.Second,
	}
	session := medhub.NewSession()
	h := NewHandler(nil, nil, nil, medhub.NewLoginClient(cfg, zap.NewNop()), session, cfg)

	req := postRequest(t, "/login", map[string]string{
		"email":    "agent@example.com",
		"password": "secret",
	})

	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bearer, err := session.Token()
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-id-token-id", bearer)
}

func TestLogin_MissingCredentials(t *testing.T) {
	h := newTestHandler(t, &fakeRepository{})

	req := postRequest(t, "/login", map[string]string{"email": "agent@example.com"})
	resp, err := h.Route(context.Background(), zap.NewNop(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
