package repositories

import (
	"database/sql"
	"fmt"

	"bistro/internal/apperrors"
	"bistro/models"
	"bistro/pkg/database"
	"bistro/pkg/logger"

	"github.com/lib/pq"
)

// InventoryRepositoryInterface is the stock ledger plus ingredient catalog.
// The tx-scoped methods (EnsureIngredient, StockForUpdate, AdjustStock) are
// only ever called inside a transaction owned by the caller; everything else
// is a self-contained operation.
type InventoryRepositoryInterface interface {
	GetAll(filter models.IngredientFilter) ([]*models.Ingredient, error)
	GetByID(id string) (*models.Ingredient, error)
	Add(item *models.Ingredient) error
	Update(id string, item *models.Ingredient) error
	Delete(id string) error

	EnsureIngredient(tx *sql.Tx, name string, unit models.Unit) (string, error)
	StockForUpdate(tx *sql.Tx, ids []string) (map[string]float64, error)
	AdjustStock(tx *sql.Tx, id string, delta float64) error

	RecipeUsage() ([]models.RecipeUsage, error)
}

type InventoryRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewInventoryRepository(logger *logger.Logger, db *database.DB) *InventoryRepository {
	return &InventoryRepository{
		logger: logger.WithComponent("inventory_repository"),
		db:     db,
	}
}

// GetAll retrieves ingredients matching the filter, ordered by name.
func (r *InventoryRepository) GetAll(filter models.IngredientFilter) ([]*models.Ingredient, error) {
	r.logger.Debug("Retrieving ingredients from database", "name_filter", filter.Name)

	query := `SELECT id, name, quantity, unit FROM ingredients WHERE 1=1`
	args := []interface{}{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.Quantity != nil {
		args = append(args, *filter.Quantity)
		if filter.Op == "le" {
			query += fmt.Sprintf(" AND quantity <= $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND quantity >= $%d", len(args))
		}
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query ingredients", "error", err)
		return nil, apperrors.Storage("failed to query ingredients", err)
	}
	defer rows.Close()

	items := []*models.Ingredient{}
	for rows.Next() {
		item := &models.Ingredient{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit); err != nil {
			r.logger.Error("Failed to scan ingredient", "error", err)
			return nil, apperrors.Storage("failed to scan ingredient", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating ingredient rows", "error", err)
		return nil, apperrors.Storage("error iterating ingredient rows", err)
	}

	r.logger.Info("Retrieved ingredients", "count", len(items))
	return items, nil
}

// GetByID retrieves a single ingredient by ID.
func (r *InventoryRepository) GetByID(id string) (*models.Ingredient, error) {
	r.logger.Debug("Retrieving ingredient from database", "ingredient_id", id)

	query := `SELECT id, name, quantity, unit FROM ingredients WHERE id = $1`

	item := &models.Ingredient{}
	err := r.db.QueryRow(query, id).Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Ingredient not found", "ingredient_id", id)
			return nil, apperrors.NotFoundf("ingredient %s not found", id)
		}
		r.logger.Error("Failed to retrieve ingredient", "error", err, "ingredient_id", id)
		return nil, apperrors.Storage("failed to retrieve ingredient", err)
	}

	return item, nil
}

// Add inserts a new ingredient. The name carries a unique constraint; a
// collision maps to AlreadyExists.
func (r *InventoryRepository) Add(item *models.Ingredient) error {
	r.logger.Debug("Adding new ingredient to database", "name", item.Name)

	query := `
		INSERT INTO ingredients (name, quantity, unit)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(query, item.Name, item.Quantity, item.Unit).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("Attempted to add duplicate ingredient", "name", item.Name)
			return apperrors.AlreadyExistsf("ingredient %q already exists", item.Name)
		}
		r.logger.Error("Failed to add ingredient", "error", err, "name", item.Name)
		return apperrors.Storage("failed to add ingredient", err)
	}

	r.logger.Info("Added new ingredient", "ingredient_id", item.ID, "name", item.Name)
	return nil
}

// Update replaces name, quantity and unit of an existing ingredient.
func (r *InventoryRepository) Update(id string, item *models.Ingredient) error {
	r.logger.Debug("Updating ingredient in database", "ingredient_id", id)

	item.ID = id

	query := `UPDATE ingredients SET name = $1, quantity = $2, unit = $3 WHERE id = $4`

	result, err := r.db.Exec(query, item.Name, item.Quantity, item.Unit, id)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExistsf("ingredient %q already exists", item.Name)
		}
		r.logger.Error("Failed to update ingredient", "error", err, "ingredient_id", id)
		return apperrors.Storage("failed to update ingredient", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to update non-existent ingredient", "ingredient_id", id)
		return apperrors.NotFoundf("ingredient %s not found", id)
	}

	r.logger.Info("Updated ingredient", "ingredient_id", id, "name", item.Name)
	return nil
}

// Delete removes an ingredient. Recipes keep a plain foreign key to
// ingredients, so deleting one that is still referenced fails rather than
// leaving dangling recipe lines.
func (r *InventoryRepository) Delete(id string) error {
	r.logger.Debug("Deleting ingredient from database", "ingredient_id", id)

	result, err := r.db.Exec(`DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.logger.Warn("Ingredient still referenced by a recipe", "ingredient_id", id)
			return apperrors.Validationf("ingredient %s is still used by a recipe", id)
		}
		r.logger.Error("Failed to delete ingredient", "error", err, "ingredient_id", id)
		return apperrors.Storage("failed to delete ingredient", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent ingredient", "ingredient_id", id)
		return apperrors.NotFoundf("ingredient %s not found", id)
	}

	r.logger.Info("Deleted ingredient", "ingredient_id", id)
	return nil
}

// EnsureIngredient resolves an ingredient id by name inside the caller's
// transaction, creating the row at zero stock when the name is new. The
// upsert relies on the unique constraint instead of check-then-act, so two
// concurrent recipe writes cannot both insert. An existing name under a
// different unit is a UnitMismatch.
func (r *InventoryRepository) EnsureIngredient(tx *sql.Tx, name string, unit models.Unit) (string, error) {
	query := `
		INSERT INTO ingredients (name, quantity, unit)
		VALUES ($1, 0, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, unit
	`

	var id string
	var existingUnit models.Unit
	if err := tx.QueryRow(query, name, unit).Scan(&id, &existingUnit); err != nil {
		r.logger.Error("Failed to upsert ingredient", "error", err, "name", name)
		return "", apperrors.Storage("failed to upsert ingredient", err)
	}

	if existingUnit != unit {
		return "", apperrors.UnitMismatchf("unit mismatch for %s: existing '%s', given '%s'", name, existingUnit, unit)
	}

	return id, nil
}

// StockForUpdate reads the current stock of the given ingredients with
// row-level locks, so the sufficiency check and the later decrement see the
// same snapshot even under concurrent order placement.
func (r *InventoryRepository) StockForUpdate(tx *sql.Tx, ids []string) (map[string]float64, error) {
	query := `SELECT id, quantity FROM ingredients WHERE id = ANY($1) FOR UPDATE`

	rows, err := tx.Query(query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to lock ingredient rows", "error", err)
		return nil, apperrors.Storage("failed to lock ingredient rows", err)
	}
	defer rows.Close()

	stock := make(map[string]float64, len(ids))
	for rows.Next() {
		var id string
		var qty float64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, apperrors.Storage("failed to scan stock row", err)
		}
		stock[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("error iterating stock rows", err)
	}

	return stock, nil
}

// AdjustStock applies a delta to an ingredient's quantity inside the
// caller's transaction. The non-negative check constraint backstops any
// decrement past zero.
func (r *InventoryRepository) AdjustStock(tx *sql.Tx, id string, delta float64) error {
	result, err := tx.Exec(`UPDATE ingredients SET quantity = quantity + $1 WHERE id = $2`, delta, id)
	if err != nil {
		if isCheckViolation(err) {
			return apperrors.InsufficientStockf("stock for ingredient %s would go negative", id)
		}
		r.logger.Error("Failed to adjust stock", "error", err, "ingredient_id", id)
		return apperrors.Storage("failed to adjust stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFoundf("ingredient %s not found", id)
	}

	return nil
}

// RecipeUsage returns every recipe line joined with the referenced
// ingredient's current stock, in recipe insertion order. Input for the
// low-stock alert evaluator.
func (r *InventoryRepository) RecipeUsage() ([]models.RecipeUsage, error) {
	query := `
		SELECT i.name, i.quantity, i.unit, di.quantity_needed
		FROM dish_ingredients di
		JOIN ingredients i ON i.id = di.ingredient_id
		ORDER BY di.id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query recipe usage", "error", err)
		return nil, apperrors.Storage("failed to query recipe usage", err)
	}
	defer rows.Close()

	usages := []models.RecipeUsage{}
	for rows.Next() {
		var u models.RecipeUsage
		if err := rows.Scan(&u.IngredientName, &u.Stock, &u.Unit, &u.QuantityNeeded); err != nil {
			return nil, apperrors.Storage("failed to scan recipe usage row", err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("error iterating recipe usage rows", err)
	}

	return usages, nil
}
