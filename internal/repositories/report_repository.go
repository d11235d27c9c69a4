package repositories

import (
	"bistro/models"
	"bistro/pkg/logger"
)

// ReportRepositoryInterface supplies the data the export/report layer
// flattens: every order with items, unfiltered, newest first.
type ReportRepositoryInterface interface {
	GetExportData() ([]*models.Order, error)
}

type ReportRepository struct {
	orderRepo OrderRepositoryInterface
	logger    *logger.Logger
}

func NewReportRepository(orderRepo OrderRepositoryInterface, log *logger.Logger) *ReportRepository {
	return &ReportRepository{
		orderRepo: orderRepo,
		logger:    log.WithComponent("report_repository"),
	}
}

func (r *ReportRepository) GetExportData() ([]*models.Order, error) {
	r.logger.Info("Fetching orders for export")

	orders, err := r.orderRepo.GetAll(models.OrderFilter{})
	if err != nil {
		r.logger.Error("Failed to get orders for export", "error", err)
		return nil, err
	}

	return orders, nil
}
