package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/domain/order"
)

type searchOrdersResponse struct {
	Records   []order.Record `json:"records"`
	Pages     int            `json:"pages"`
	Partial   bool           `json:"partial"`
	Truncated bool           `json:"truncated"`
}

// SearchOrders runs one paginated sync for the requested status and filters.
// A mid-pagination failure still returns the pages fetched so far, flagged
// as partial.
func (h *Handler) SearchOrders(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	res, err := h.orders.Sync(ctx, order.SyncQuery{
		StatusLabel: params["status"],
		SearchText:  params["searchText"],
		OrderDate:   params["orderDate"],
		OrderType:   params["orderType"],
		Fast:        params["fast"] == "true",
	})
	if err != nil && !res.Partial {
		return events.APIGatewayProxyResponse{}, err
	}
	if err != nil {
		logger.Warn("order sync returned partial results",
			zap.Int("pages", res.Pages),
			zap.Error(err))
	}

	records := res.Records
	if sortBy := params["sortBy"]; sortBy != "" {
		records = order.SortRecords(records, sortBy, params["sortDir"])
	}
	if records == nil {
		records = []order.Record{}
	}

	return response.OK(searchOrdersResponse{
		Records:   records,
		Pages:     res.Pages,
		Partial:   res.Partial,
		Truncated: res.Truncated,
	}, requestID(request)), nil
}

type updateOrderRequest struct {
	Email         string `json:"email"`
	ID            string `json:"id"`
	ModifiedBy    string `json:"modifiedBy"`
	PatientName   string `json:"patientName"`
	AccountNumber string `json:"accountNumber"`
	PharmacyName  string `json:"pharmacyName"`
	ScriptNumber  string `json:"scriptNumber"`
	Status        string `json:"status"`
	Comment       string `json:"comment"`
	OrderDate     string `json:"orderDate"`
}

// UpdateOrder applies a set of field edits to one order record.
func (h *Handler) UpdateOrder(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req updateOrderRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid request body", requestID(request)), nil
	}
	if req.Email == "" || req.ID == "" || req.ModifiedBy == "" {
		return response.BadRequest("email, id and modifiedBy are required", requestID(request)), nil
	}

	err := h.orders.UpdateOrder(ctx, order.UpdateOrderParams{
		Email:         req.Email,
		ID:            req.ID,
		ModifiedBy:    req.ModifiedBy,
		PatientName:   req.PatientName,
		AccountNumber: req.AccountNumber,
		PharmacyName:  req.PharmacyName,
		ScriptNumber:  req.ScriptNumber,
		Status:        req.Status,
		Comment:       req.Comment,
		OrderDate:     req.OrderDate,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	logger.Info("updated order", zap.String("orderId", req.ID))

	return response.OK(map[string]interface{}{"updated": true}, requestID(request)), nil
}
