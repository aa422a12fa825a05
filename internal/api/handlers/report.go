package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/response"
	"github.com/Liiaam93/token-tool/internal/domain/report"
)

type generateReportResponse struct {
	Report        report.Report `json:"report"`
	TSV           string        `json:"tsv"`
	WellBreakdown string        `json:"wellBreakdownTsv,omitempty"`
}

var reportOrderTypes = map[string]bool{
	"eps":    true,
	"trade":  true,
	"mtm":    true,
	"manual": true,
}

// GenerateReport runs a full status sweep for one order type and returns the
// bucketed counts together with the spreadsheet-ready TSV renderings.
func (h *Handler) GenerateReport(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	orderType := params["orderType"]
	if orderType == "" {
		orderType = "eps"
	}
	if !reportOrderTypes[orderType] {
		return response.BadRequest("orderType must be one of eps, trade, mtm, manual", requestID(request)), nil
	}

	rep, err := h.reports.Generate(ctx, report.Request{
		OrderType: orderType,
		OrderDate: params["orderDate"],
		Fast:      params["fast"] == "true",
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if len(rep.FailedStatuses) > 0 {
		logger.Warn("report generated with failed statuses",
			zap.Strings("statuses", rep.FailedStatuses))
	}

	return response.OK(generateReportResponse{
		Report:        rep,
		TSV:           rep.TSV(),
		WellBreakdown: rep.WellBreakdownTSV(),
	}, requestID(request)), nil
}
