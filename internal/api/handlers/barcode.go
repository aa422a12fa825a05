package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/domain/barcode"
)

type barcodeCorrectionsRequest struct {
	Barcode string `json:"barcode"`
}

type barcodeCorrectionsResponse struct {
	Barcode     string   `json:"barcode"`
	Corrections []string `json:"corrections"`
}

// BarcodeCorrections returns the plausible corrections for a barcode that
// failed to match, built from the usual scan misreads.
func (h *Handler) BarcodeCorrections(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req barcodeCorrectionsRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid request body", requestID(request)), nil
	}
	if req.Barcode == "" {
		return response.BadRequest("barcode is required", requestID(request)), nil
	}

	corrections := barcode.GenerateCorrections(req.Barcode)
	if corrections == nil {
		corrections = []string{}
	}

	logger.Info("generated barcode corrections",
		zap.String("barcode", req.Barcode),
		zap.Int("candidates", len(corrections)))

	return response.OK(barcodeCorrectionsResponse{
		Barcode:     req.Barcode,
		Corrections: corrections,
	}, requestID(request)), nil
}
