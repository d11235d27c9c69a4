package service

import (
	"bistro/internal/apperrors"
	"bistro/internal/repositories"
	"bistro/models"
	"bistro/pkg/logger"
)

// RecipeLineRequest references an ingredient by name so that new names can
// be auto-vivified during the recipe write.
type RecipeLineRequest struct {
	Name      string  `json:"name"`
	QtyNeeded float64 `json:"qty_needed"`
	Unit      string  `json:"unit"`
}

// DishRequest carries the fields of a dish create or update. The recipe
// always replaces the previous one wholesale.
type DishRequest struct {
	Name   string              `json:"name"`
	Price  float64             `json:"price"`
	Recipe []RecipeLineRequest `json:"recipe"`
}

type MenuServiceInterface interface {
	GetAllDishes(filter models.DishFilter) ([]*models.Dish, error)
	GetDishByID(id string) (*models.Dish, error)
	CreateDish(req DishRequest) (*models.Dish, error)
	UpdateDish(id string, req DishRequest) error
	DeleteDish(id string) error
}

type MenuService struct {
	menuRepo repositories.MenuRepositoryInterface
	logger   *logger.Logger
}

func NewMenuService(menuRepo repositories.MenuRepositoryInterface, logger *logger.Logger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		logger:   logger.WithComponent("menu_service"),
	}
}

// GetAllDishes retrieves dishes matching the filter.
func (s *MenuService) GetAllDishes(filter models.DishFilter) ([]*models.Dish, error) {
	s.logger.Info("Fetching dishes", "name_filter", filter.Name)

	dishes, err := s.menuRepo.GetAll(filter)
	if err != nil {
		s.logger.Error("Failed to fetch dishes", "error", err)
		return nil, err
	}

	s.logger.Info("Fetched dishes", "count", len(dishes))
	return dishes, nil
}

// GetDishByID retrieves a dish with its recipe.
func (s *MenuService) GetDishByID(id string) (*models.Dish, error) {
	if id == "" {
		return nil, apperrors.Validationf("dish ID is required")
	}
	return s.menuRepo.GetByID(id)
}

// CreateDish creates a dish together with its recipe. Unknown ingredient
// names are auto-vivified at zero stock; a name already registered under a
// different unit fails the whole creation.
func (s *MenuService) CreateDish(req DishRequest) (*models.Dish, error) {
	s.logger.Info("Creating dish", "name", req.Name, "price", req.Price)

	dish, err := s.dishFromRequest(req)
	if err != nil {
		s.logger.Warn("Create failed: invalid data", "error", err)
		return nil, err
	}

	if err := s.menuRepo.Create(dish); err != nil {
		s.logger.Warn("Failed to create dish", "name", req.Name, "error", err)
		return nil, err
	}

	s.logger.Info("Dish created", "dish_id", dish.ID, "name", dish.Name)
	return dish, nil
}

// UpdateDish replaces name, price and the entire recipe set. A validation
// failure or unit conflict leaves the previous state untouched.
func (s *MenuService) UpdateDish(id string, req DishRequest) error {
	s.logger.Info("Updating dish", "dish_id", id, "name", req.Name)

	if id == "" {
		return apperrors.Validationf("dish ID is required")
	}
	dish, err := s.dishFromRequest(req)
	if err != nil {
		s.logger.Warn("Update failed: invalid data", "dish_id", id, "error", err)
		return err
	}

	if err := s.menuRepo.Update(id, dish); err != nil {
		s.logger.Warn("Failed to update dish", "dish_id", id, "error", err)
		return err
	}

	s.logger.Info("Dish updated", "dish_id", id)
	return nil
}

// DeleteDish removes a dish and, via cascade, its recipe links.
func (s *MenuService) DeleteDish(id string) error {
	s.logger.Info("Deleting dish", "dish_id", id)

	if id == "" {
		return apperrors.Validationf("dish ID is required")
	}

	if err := s.menuRepo.Delete(id); err != nil {
		s.logger.Warn("Failed to delete dish", "dish_id", id, "error", err)
		return err
	}

	s.logger.Info("Dish deleted", "dish_id", id)
	return nil
}

func (s *MenuService) dishFromRequest(req DishRequest) (*models.Dish, error) {
	if req.Name == "" {
		return nil, apperrors.Validationf("dish name is required")
	}
	if req.Price <= 0 {
		return nil, apperrors.Validationf("price must be greater than 0")
	}

	recipe := make([]models.RecipeLine, 0, len(req.Recipe))
	for i, line := range req.Recipe {
		if line.Name == "" {
			return nil, apperrors.Validationf("recipe line %d: ingredient name is required", i+1)
		}
		if line.QtyNeeded <= 0 {
			return nil, apperrors.Validationf("recipe line %d: quantity needed must be greater than 0 for %s", i+1, line.Name)
		}
		unit, err := models.ParseUnit(line.Unit)
		if err != nil {
			return nil, apperrors.Validationf("recipe line %d: %v", i+1, err)
		}
		recipe = append(recipe, models.RecipeLine{
			IngredientName: line.Name,
			QuantityNeeded: line.QtyNeeded,
			Unit:           unit,
		})
	}

	return &models.Dish{
		Name:   req.Name,
		Price:  req.Price,
		Recipe: recipe,
	}, nil
}
