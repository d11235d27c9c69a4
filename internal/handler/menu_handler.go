package handler

import (
	"net/http"
	"strconv"

	"bistro/internal/service"
	"bistro/models"
	"bistro/pkg/logger"
)

type MenuHandler struct {
	menuService service.MenuServiceInterface
	logger      *logger.Logger
}

func NewMenuHandler(menuService service.MenuServiceInterface, logger *logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		logger:      logger.WithComponent("menu_handler"),
	}
}

// ListDishes handles GET /api/v1/menu
// Query params: name (substring), price (numeric bound), op ("le" or "ge").
func (h *MenuHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	filter := models.DishFilter{
		Name: r.URL.Query().Get("name"),
		Op:   r.URL.Query().Get("op"),
	}
	if raw := r.URL.Query().Get("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.logger.Warn("Invalid price filter", "price", raw)
			writeErrorResponse(w, http.StatusBadRequest, "Invalid price filter")
			return
		}
		filter.Price = &price
	}

	dishes, err := h.menuService.GetAllDishes(filter)
	if err != nil {
		h.logger.Error("Failed to list dishes", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, dishes)
}

// GetDish handles GET /api/v1/menu/{id}
func (h *MenuHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	dish, err := h.menuService.GetDishByID(id)
	if err != nil {
		h.logger.Warn("Failed to get dish", "dish_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, dish)
}

// CreateDish handles POST /api/v1/menu
func (h *MenuHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req service.DishRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for create dish", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dish, err := h.menuService.CreateDish(req)
	if err != nil {
		h.logger.Warn("Failed to create dish", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, dish)
}

// UpdateDish handles PUT /api/v1/menu/{id}
func (h *MenuHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req service.DishRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for update dish", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.menuService.UpdateDish(id, req); err != nil {
		h.logger.Warn("Failed to update dish", "dish_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Dish updated"})
}

// DeleteDish handles DELETE /api/v1/menu/{id}
func (h *MenuHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.menuService.DeleteDish(id); err != nil {
		h.logger.Warn("Failed to delete dish", "dish_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Dish deleted"})
}
