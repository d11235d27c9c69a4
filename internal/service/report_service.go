package service

import (
	"strconv"

	"bistro/internal/repositories"
	"bistro/pkg/logger"
)

// exportHeader is the column layout of the orders export: one row per order
// item, with the order-level amounts duplicated across sibling item rows.
var exportHeader = []string{
	"order_id", "order_date", "dish_name", "qty", "line_price",
	"subtotal", "vat_rate", "vat_amount", "total",
}

type ReportServiceInterface interface {
	ExportOrdersCSV() ([][]string, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *logger.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *logger.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		logger:     logger.WithComponent("report_service"),
	}
}

// ExportOrdersCSV flattens every order into tabular rows, header first.
// Every stored order item appears exactly once.
func (s *ReportService) ExportOrdersCSV() ([][]string, error) {
	s.logger.Info("Exporting orders to CSV")

	orders, err := s.reportRepo.GetExportData()
	if err != nil {
		s.logger.Error("Failed to load orders for export", "error", err)
		return nil, err
	}

	rows := [][]string{exportHeader}
	for _, order := range orders {
		date := order.OrderDate.Format("2006-01-02")
		for _, item := range order.Items {
			rows = append(rows, []string{
				order.ID,
				date,
				item.DishName,
				strconv.Itoa(item.Quantity),
				formatAmount(item.LinePrice),
				formatAmount(order.Subtotal),
				strconv.FormatFloat(order.VATRate, 'f', -1, 64),
				formatAmount(order.VATAmount),
				formatAmount(order.Total),
			})
		}
	}

	s.logger.Info("Export rows built", "rows", len(rows)-1)
	return rows, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
