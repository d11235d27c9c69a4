package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"bistro/internal/apperrors"
	"bistro/models"
	"bistro/pkg/database"
	"bistro/pkg/logger"
)

// MenuRepositoryInterface manages dishes and their recipes. Create and
// Update run their own transaction: the dish row, the recipe replacement
// and any ingredient auto-vivification commit or roll back together.
type MenuRepositoryInterface interface {
	GetAll(filter models.DishFilter) ([]*models.Dish, error)
	GetByID(id string) (*models.Dish, error)
	Create(dish *models.Dish) error
	Update(id string, dish *models.Dish) error
	Delete(id string) error

	GetByIDTx(tx *sql.Tx, id string) (*models.Dish, error)
	RecipeTx(tx *sql.Tx, dishID string) ([]models.RecipeLine, error)
}

// IngredientVivifier is the slice of the inventory repository the menu
// repository needs: lookup-or-insert by name within a transaction.
type IngredientVivifier interface {
	EnsureIngredient(tx *sql.Tx, name string, unit models.Unit) (string, error)
}

type MenuRepository struct {
	logger      *logger.Logger
	db          *database.DB
	ingredients IngredientVivifier
}

func NewMenuRepository(logger *logger.Logger, db *database.DB, ingredients IngredientVivifier) *MenuRepository {
	return &MenuRepository{
		logger:      logger.WithComponent("menu_repository"),
		db:          db,
		ingredients: ingredients,
	}
}

const dishWithRecipeSelect = `
	SELECT d.id, d.name, d.price,
	       COALESCE(
	           json_agg(
	               json_build_object(
	                   'ingredient_id', di.ingredient_id,
	                   'name', i.name,
	                   'qty_needed', di.quantity_needed,
	                   'unit', i.unit,
	                   'stock', i.quantity
	               )
	           ) FILTER (WHERE di.ingredient_id IS NOT NULL), '[]'::json
	       ) AS recipe
	FROM dishes d
	LEFT JOIN dish_ingredients di ON d.id = di.dish_id
	LEFT JOIN ingredients i ON i.id = di.ingredient_id
`

// GetAll retrieves dishes matching the filter with their recipes attached.
func (r *MenuRepository) GetAll(filter models.DishFilter) ([]*models.Dish, error) {
	r.logger.Debug("Retrieving dishes from database", "name_filter", filter.Name)

	query := dishWithRecipeSelect + ` WHERE 1=1`
	args := []interface{}{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		query += fmt.Sprintf(" AND d.name ILIKE $%d", len(args))
	}
	if filter.Price != nil {
		args = append(args, *filter.Price)
		if filter.Op == "ge" {
			query += fmt.Sprintf(" AND d.price >= $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND d.price <= $%d", len(args))
		}
	}
	query += " GROUP BY d.id, d.name, d.price ORDER BY d.name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query dishes", "error", err)
		return nil, apperrors.Storage("failed to query dishes", err)
	}
	defer rows.Close()

	dishes := []*models.Dish{}
	for rows.Next() {
		dish := &models.Dish{}
		var recipeJSON string
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Price, &recipeJSON); err != nil {
			r.logger.Error("Failed to scan dish", "error", err)
			return nil, apperrors.Storage("failed to scan dish", err)
		}
		if err := parseRecipe(recipeJSON, &dish.Recipe); err != nil {
			r.logger.Error("Failed to parse recipe", "error", err, "dish_id", dish.ID)
			return nil, apperrors.Storage("failed to parse recipe", err)
		}
		dishes = append(dishes, dish)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating dish rows", "error", err)
		return nil, apperrors.Storage("error iterating dish rows", err)
	}

	r.logger.Info("Retrieved dishes", "count", len(dishes))
	return dishes, nil
}

// GetByID retrieves a dish with its recipe.
func (r *MenuRepository) GetByID(id string) (*models.Dish, error) {
	r.logger.Debug("Retrieving dish from database", "dish_id", id)

	query := dishWithRecipeSelect + ` WHERE d.id = $1 GROUP BY d.id, d.name, d.price`

	dish := &models.Dish{}
	var recipeJSON string
	err := r.db.QueryRow(query, id).Scan(&dish.ID, &dish.Name, &dish.Price, &recipeJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Dish not found", "dish_id", id)
			return nil, apperrors.NotFoundf("dish %s not found", id)
		}
		r.logger.Error("Failed to retrieve dish", "error", err, "dish_id", id)
		return nil, apperrors.Storage("failed to retrieve dish", err)
	}

	if err := parseRecipe(recipeJSON, &dish.Recipe); err != nil {
		r.logger.Error("Failed to parse recipe", "error", err, "dish_id", id)
		return nil, apperrors.Storage("failed to parse recipe", err)
	}

	return dish, nil
}

// Create inserts a dish and its recipe in one transaction, auto-vivifying
// unknown ingredient names at zero stock. Any recipe failure, including a
// unit mismatch, rolls the whole dish back.
func (r *MenuRepository) Create(dish *models.Dish) error {
	r.logger.Debug("Adding new dish", "name", dish.Name)

	err := r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		query := `INSERT INTO dishes (name, price) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRow(query, dish.Name, dish.Price).Scan(&dish.ID); err != nil {
			if isUniqueViolation(err) {
				r.logger.Warn("Attempted to add duplicate dish", "name", dish.Name)
				return apperrors.AlreadyExistsf("dish %q already exists", dish.Name)
			}
			r.logger.Error("Failed to add dish", "error", err, "name", dish.Name)
			return apperrors.Storage("failed to add dish", err)
		}

		return r.insertRecipe(tx, dish.ID, dish.Recipe)
	})
	if err != nil {
		return err
	}

	r.logger.Info("Added new dish", "dish_id", dish.ID, "name", dish.Name)
	return nil
}

// Update replaces name, price and the entire recipe set transactionally.
func (r *MenuRepository) Update(id string, dish *models.Dish) error {
	r.logger.Debug("Updating dish in database", "dish_id", id)

	dish.ID = id

	err := r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		query := `UPDATE dishes SET name = $1, price = $2 WHERE id = $3`
		result, err := tx.Exec(query, dish.Name, dish.Price, id)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExistsf("dish %q already exists", dish.Name)
			}
			r.logger.Error("Failed to update dish", "error", err, "dish_id", id)
			return apperrors.Storage("failed to update dish", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return apperrors.Storage("failed to get rows affected", err)
		}
		if rowsAffected == 0 {
			r.logger.Warn("Attempted to update non-existent dish", "dish_id", id)
			return apperrors.NotFoundf("dish %s not found", id)
		}

		if _, err := tx.Exec(`DELETE FROM dish_ingredients WHERE dish_id = $1`, id); err != nil {
			r.logger.Error("Failed to delete existing recipe", "error", err, "dish_id", id)
			return apperrors.Storage("failed to delete existing recipe", err)
		}

		return r.insertRecipe(tx, id, dish.Recipe)
	})
	if err != nil {
		return err
	}

	r.logger.Info("Updated dish", "dish_id", id, "name", dish.Name)
	return nil
}

// Delete removes a dish; the cascade removes its recipe links. A dish that
// appears in any historical order cannot be deleted, so order reports stay
// resolvable.
func (r *MenuRepository) Delete(id string) error {
	r.logger.Debug("Deleting dish from database", "dish_id", id)

	var referenced bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM order_items WHERE dish_id = $1)`, id).Scan(&referenced)
	if err != nil {
		r.logger.Error("Failed to check dish order references", "error", err, "dish_id", id)
		return apperrors.Storage("failed to check dish order references", err)
	}
	if referenced {
		r.logger.Warn("Attempted to delete dish with recorded orders", "dish_id", id)
		return apperrors.Validationf("dish %s has recorded orders and cannot be deleted", id)
	}

	result, err := r.db.Exec(`DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Validationf("dish %s has recorded orders and cannot be deleted", id)
		}
		r.logger.Error("Failed to delete dish", "error", err, "dish_id", id)
		return apperrors.Storage("failed to delete dish", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent dish", "dish_id", id)
		return apperrors.NotFoundf("dish %s not found", id)
	}

	r.logger.Info("Deleted dish", "dish_id", id)
	return nil
}

// GetByIDTx resolves a dish's name and price inside the caller's
// transaction. Recipe is not loaded; the order engine fetches it separately.
func (r *MenuRepository) GetByIDTx(tx *sql.Tx, id string) (*models.Dish, error) {
	dish := &models.Dish{}
	err := tx.QueryRow(`SELECT id, name, price FROM dishes WHERE id = $1`, id).
		Scan(&dish.ID, &dish.Name, &dish.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("dish %s not found", id)
		}
		return nil, apperrors.Storage("failed to retrieve dish", err)
	}
	return dish, nil
}

// RecipeTx loads a dish's recipe lines inside the caller's transaction.
func (r *MenuRepository) RecipeTx(tx *sql.Tx, dishID string) ([]models.RecipeLine, error) {
	query := `
		SELECT di.ingredient_id, i.name, di.quantity_needed, i.unit, i.quantity
		FROM dish_ingredients di
		JOIN ingredients i ON i.id = di.ingredient_id
		WHERE di.dish_id = $1
	`

	rows, err := tx.Query(query, dishID)
	if err != nil {
		return nil, apperrors.Storage("failed to query recipe", err)
	}
	defer rows.Close()

	recipe := []models.RecipeLine{}
	for rows.Next() {
		var line models.RecipeLine
		if err := rows.Scan(&line.IngredientID, &line.IngredientName, &line.QuantityNeeded, &line.Unit, &line.Stock); err != nil {
			return nil, apperrors.Storage("failed to scan recipe line", err)
		}
		recipe = append(recipe, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("error iterating recipe rows", err)
	}

	return recipe, nil
}

func (r *MenuRepository) insertRecipe(tx *sql.Tx, dishID string, recipe []models.RecipeLine) error {
	query := `
		INSERT INTO dish_ingredients (dish_id, ingredient_id, quantity_needed)
		VALUES ($1, $2, $3)
	`

	for _, line := range recipe {
		ingredientID, err := r.ingredients.EnsureIngredient(tx, line.IngredientName, line.Unit)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, dishID, ingredientID, line.QuantityNeeded); err != nil {
			r.logger.Error("Failed to insert recipe line", "error", err, "ingredient", line.IngredientName)
			return apperrors.Storage(fmt.Sprintf("failed to insert recipe line for %s", line.IngredientName), err)
		}
	}

	return nil
}

func parseRecipe(recipeJSON string, recipe *[]models.RecipeLine) error {
	if recipeJSON == "" || recipeJSON == "[]" {
		*recipe = []models.RecipeLine{}
		return nil
	}

	parsed := []models.RecipeLine{}
	if err := json.Unmarshal([]byte(recipeJSON), &parsed); err != nil {
		return fmt.Errorf("invalid JSON format for recipe: %v", err)
	}

	*recipe = parsed
	return nil
}
