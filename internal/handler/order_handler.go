package handler

import (
	"net/http"
	"time"

	"bistro/internal/service"
	"bistro/models"
	"bistro/pkg/logger"
)

type OrderHandler struct {
	orderService service.OrderServiceInterface
	logger       *logger.Logger
}

func NewOrderHandler(orderService service.OrderServiceInterface, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger.WithComponent("order_handler"),
	}
}

// PlaceOrder handles POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for place order", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.PlaceOrder(req)
	if err != nil {
		h.logger.Warn("Failed to place order", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders
// Query params: dish (substring against any contained dish name), start and
// end (inclusive calendar dates, YYYY-MM-DD).
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := models.OrderFilter{
		DishName: r.URL.Query().Get("dish"),
	}

	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.logger.Warn("Invalid start date filter", "start", raw)
			writeErrorResponse(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &start
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.logger.Warn("Invalid end date filter", "end", raw)
			writeErrorResponse(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		filter.EndDate = &end
	}

	orders, err := h.orderService.GetAllOrders(filter)
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		h.logger.Warn("Failed to get order", "order_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, order)
}
