package handler

import (
	"net/http"
	"strconv"

	"bistro/internal/service"
	"bistro/models"
	"bistro/pkg/logger"
)

type InventoryHandler struct {
	inventoryService service.InventoryServiceInterface
	logger           *logger.Logger
}

func NewInventoryHandler(inventoryService service.InventoryServiceInterface, logger *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger.WithComponent("inventory_handler"),
	}
}

// ListIngredients handles GET /api/v1/inventory
// Query params: name (substring), qty (numeric bound), op ("ge" or "le").
func (h *InventoryHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	filter := models.IngredientFilter{
		Name: r.URL.Query().Get("name"),
		Op:   r.URL.Query().Get("op"),
	}
	if raw := r.URL.Query().Get("qty"); raw != "" {
		qty, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.logger.Warn("Invalid quantity filter", "qty", raw)
			writeErrorResponse(w, http.StatusBadRequest, "Invalid quantity filter")
			return
		}
		filter.Quantity = &qty
	}

	items, err := h.inventoryService.GetAllIngredients(filter)
	if err != nil {
		h.logger.Error("Failed to list ingredients", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, items)
}

// GetIngredient handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := h.inventoryService.GetIngredientByID(id)
	if err != nil {
		h.logger.Warn("Failed to get ingredient", "ingredient_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, item)
}

// AddIngredient handles POST /api/v1/inventory
func (h *InventoryHandler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	var req service.IngredientRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for add ingredient", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.inventoryService.AddIngredient(req)
	if err != nil {
		h.logger.Warn("Failed to add ingredient", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, item)
}

// UpdateIngredient handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req service.IngredientRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for update ingredient", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.inventoryService.UpdateIngredient(id, req); err != nil {
		h.logger.Warn("Failed to update ingredient", "ingredient_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Ingredient updated"})
}

// DeleteIngredient handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.inventoryService.DeleteIngredient(id); err != nil {
		h.logger.Warn("Failed to delete ingredient", "ingredient_id", id, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Ingredient deleted"})
}

// LowStockAlerts handles GET /api/v1/inventory/alerts
func (h *InventoryHandler) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.inventoryService.LowStockAlerts()
	if err != nil {
		h.logger.Error("Failed to compute low-stock alerts", "error", err)
		writeAppError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, alerts)
}
