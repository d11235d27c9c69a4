package handler

import (
	"encoding/csv"
	"net/http"

	"bistro/internal/service"
	"bistro/pkg/logger"
)

type ReportHandler struct {
	reportService service.ReportServiceInterface
	logger        *logger.Logger
}

func NewReportHandler(reportService service.ReportServiceInterface, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger.WithComponent("report_handler"),
	}
}

// ExportOrdersCSV handles GET /api/v1/reports/orders.csv
func (h *ReportHandler) ExportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.ExportOrdersCSV()
	if err != nil {
		h.logger.Error("Failed to export orders", "error", err)
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=orders.csv")

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		h.logger.Error("Failed to write CSV response", "error", err)
	}
}
