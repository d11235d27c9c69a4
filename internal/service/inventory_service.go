package service

import (
	"bistro/internal/apperrors"
	"bistro/internal/metrics"
	"bistro/internal/repositories"
	"bistro/models"
	"bistro/pkg/logger"
)

// IngredientRequest carries the fields of an ingredient create or update.
type IngredientRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type InventoryServiceInterface interface {
	GetAllIngredients(filter models.IngredientFilter) ([]*models.Ingredient, error)
	GetIngredientByID(id string) (*models.Ingredient, error)
	AddIngredient(req IngredientRequest) (*models.Ingredient, error)
	UpdateIngredient(id string, req IngredientRequest) error
	DeleteIngredient(id string) error
	LowStockAlerts() ([]models.LowStockAlert, error)
}

type InventoryService struct {
	inventoryRepo repositories.InventoryRepositoryInterface
	metrics       *metrics.Registry
	logger        *logger.Logger
}

func NewInventoryService(inventoryRepo repositories.InventoryRepositoryInterface, m *metrics.Registry, logger *logger.Logger) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		metrics:       m,
		logger:        logger.WithComponent("inventory_service"),
	}
}

// GetAllIngredients retrieves ingredients matching the filter.
func (s *InventoryService) GetAllIngredients(filter models.IngredientFilter) ([]*models.Ingredient, error) {
	s.logger.Info("Fetching ingredients", "name_filter", filter.Name)

	items, err := s.inventoryRepo.GetAll(filter)
	if err != nil {
		s.logger.Error("Failed to fetch ingredients", "error", err)
		return nil, err
	}

	s.logger.Info("Fetched ingredients", "count", len(items))
	return items, nil
}

// GetIngredientByID retrieves a single ingredient.
func (s *InventoryService) GetIngredientByID(id string) (*models.Ingredient, error) {
	if id == "" {
		return nil, apperrors.Validationf("ingredient ID is required")
	}
	return s.inventoryRepo.GetByID(id)
}

// AddIngredient creates a new ingredient with an initial stock quantity.
func (s *InventoryService) AddIngredient(req IngredientRequest) (*models.Ingredient, error) {
	s.logger.Info("Adding ingredient", "name", req.Name, "unit", req.Unit)

	item, err := s.ingredientFromRequest(req)
	if err != nil {
		s.logger.Warn("Add failed: invalid data", "error", err)
		return nil, err
	}

	if err := s.inventoryRepo.Add(item); err != nil {
		s.logger.Error("Failed to add ingredient", "name", req.Name, "error", err)
		return nil, err
	}

	s.logger.Info("Ingredient added", "ingredient_id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateIngredient replaces name, quantity and unit of an ingredient.
func (s *InventoryService) UpdateIngredient(id string, req IngredientRequest) error {
	s.logger.Info("Updating ingredient", "ingredient_id", id, "name", req.Name)

	if id == "" {
		return apperrors.Validationf("ingredient ID is required")
	}
	item, err := s.ingredientFromRequest(req)
	if err != nil {
		s.logger.Warn("Update failed: invalid data", "ingredient_id", id, "error", err)
		return err
	}

	if err := s.inventoryRepo.Update(id, item); err != nil {
		s.logger.Warn("Failed to update ingredient", "ingredient_id", id, "error", err)
		return err
	}

	s.logger.Info("Ingredient updated", "ingredient_id", id)
	return nil
}

// DeleteIngredient removes an ingredient by ID.
func (s *InventoryService) DeleteIngredient(id string) error {
	s.logger.Info("Deleting ingredient", "ingredient_id", id)

	if id == "" {
		return apperrors.Validationf("ingredient ID is required")
	}

	if err := s.inventoryRepo.Delete(id); err != nil {
		s.logger.Warn("Failed to delete ingredient", "ingredient_id", id, "error", err)
		return err
	}

	s.logger.Info("Ingredient deleted", "ingredient_id", id)
	return nil
}

// LowStockAlerts scans every recipe line and flags ingredients whose stock
// is strictly below three times the line's needed quantity. An ingredient
// is reported once per (name, unit) pair: the first triggering line wins and
// later lines are suppressed even when they would compute a different
// threshold. Read-only, recomputed on every call.
func (s *InventoryService) LowStockAlerts() ([]models.LowStockAlert, error) {
	usages, err := s.inventoryRepo.RecipeUsage()
	if err != nil {
		s.logger.Error("Failed to load recipe usage for alerts", "error", err)
		return nil, err
	}

	type alertKey struct {
		name string
		unit models.Unit
	}

	alerts := []models.LowStockAlert{}
	seen := map[alertKey]bool{}
	for _, u := range usages {
		threshold := 3 * u.QuantityNeeded
		if u.Stock >= threshold {
			continue
		}
		key := alertKey{name: u.IngredientName, unit: u.Unit}
		if seen[key] {
			continue
		}
		seen[key] = true
		alerts = append(alerts, models.LowStockAlert{
			Ingredient: u.IngredientName,
			Stock:      u.Stock,
			Unit:       u.Unit,
			Threshold:  threshold,
		})
	}

	s.metrics.LowStockAlertCount.Set(float64(len(alerts)))
	s.logger.Info("Computed low-stock alerts", "count", len(alerts))
	return alerts, nil
}

func (s *InventoryService) ingredientFromRequest(req IngredientRequest) (*models.Ingredient, error) {
	if req.Name == "" {
		return nil, apperrors.Validationf("ingredient name is required")
	}
	if req.Quantity <= 0 {
		return nil, apperrors.Validationf("quantity must be greater than 0")
	}
	unit, err := models.ParseUnit(req.Unit)
	if err != nil {
		return nil, apperrors.Validationf("%v", err)
	}
	return &models.Ingredient{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     unit,
	}, nil
}
