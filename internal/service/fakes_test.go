package service

import (
	"database/sql"
	"fmt"
	"time"

	"bistro/internal/apperrors"
	"bistro/models"
	"bistro/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stdout"})
}

// fakeTxRunner emulates transactional semantics over the in-memory fakes:
// it snapshots their state before running fn and restores it when fn fails,
// so rollback behavior can be asserted without a database.
type fakeTxRunner struct {
	inventory *fakeInventoryRepo
	orders    *fakeOrderRepo
}

func (r *fakeTxRunner) ExecuteInTransaction(fn func(*sql.Tx) error) error {
	stockBefore := make(map[string]float64, len(r.inventory.items))
	for id, item := range r.inventory.items {
		stockBefore[id] = item.Quantity
	}
	ordersBefore := len(r.orders.orders)

	if err := fn(nil); err != nil {
		for id, qty := range stockBefore {
			r.inventory.items[id].Quantity = qty
		}
		r.orders.orders = r.orders.orders[:ordersBefore]
		return err
	}
	return nil
}

type fakeInventoryRepo struct {
	items  map[string]*models.Ingredient
	usages []models.RecipeUsage

	// Ids whose AdjustStock call should fail, to exercise rollback.
	failAdjust map[string]bool
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items:      map[string]*models.Ingredient{},
		failAdjust: map[string]bool{},
	}
}

func (r *fakeInventoryRepo) add(id, name string, qty float64, unit models.Unit) {
	r.items[id] = &models.Ingredient{ID: id, Name: name, Quantity: qty, Unit: unit}
}

func (r *fakeInventoryRepo) GetAll(filter models.IngredientFilter) ([]*models.Ingredient, error) {
	out := []*models.Ingredient{}
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeInventoryRepo) GetByID(id string) (*models.Ingredient, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFoundf("ingredient %s not found", id)
	}
	return item, nil
}

func (r *fakeInventoryRepo) Add(item *models.Ingredient) error {
	for _, existing := range r.items {
		if existing.Name == item.Name {
			return apperrors.AlreadyExistsf("ingredient %q already exists", item.Name)
		}
	}
	item.ID = fmt.Sprintf("ing-%d", len(r.items)+1)
	r.items[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) Update(id string, item *models.Ingredient) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.NotFoundf("ingredient %s not found", id)
	}
	item.ID = id
	r.items[id] = item
	return nil
}

func (r *fakeInventoryRepo) Delete(id string) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.NotFoundf("ingredient %s not found", id)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeInventoryRepo) EnsureIngredient(tx *sql.Tx, name string, unit models.Unit) (string, error) {
	for id, item := range r.items {
		if item.Name == name {
			if item.Unit != unit {
				return "", apperrors.UnitMismatchf("unit mismatch for %s: existing '%s', given '%s'", name, item.Unit, unit)
			}
			return id, nil
		}
	}
	id := fmt.Sprintf("ing-%d", len(r.items)+1)
	r.add(id, name, 0, unit)
	return id, nil
}

func (r *fakeInventoryRepo) StockForUpdate(tx *sql.Tx, ids []string) (map[string]float64, error) {
	stock := map[string]float64{}
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			stock[id] = item.Quantity
		}
	}
	return stock, nil
}

func (r *fakeInventoryRepo) AdjustStock(tx *sql.Tx, id string, delta float64) error {
	if r.failAdjust[id] {
		return apperrors.Storage("failed to adjust stock", fmt.Errorf("forced failure for %s", id))
	}
	item, ok := r.items[id]
	if !ok {
		return apperrors.NotFoundf("ingredient %s not found", id)
	}
	if item.Quantity+delta < 0 {
		return apperrors.InsufficientStockf("stock for ingredient %s would go negative", id)
	}
	item.Quantity += delta
	return nil
}

func (r *fakeInventoryRepo) RecipeUsage() ([]models.RecipeUsage, error) {
	return r.usages, nil
}

type fakeMenuRepo struct {
	dishes map[string]*models.Dish

	// Ingredient catalog the fake vivifies against on Create/Update.
	ingredients *fakeInventoryRepo
}

func newFakeMenuRepo(ingredients *fakeInventoryRepo) *fakeMenuRepo {
	return &fakeMenuRepo{
		dishes:      map[string]*models.Dish{},
		ingredients: ingredients,
	}
}

func (r *fakeMenuRepo) add(dish *models.Dish) {
	r.dishes[dish.ID] = dish
}

func (r *fakeMenuRepo) GetAll(filter models.DishFilter) ([]*models.Dish, error) {
	out := []*models.Dish{}
	for _, dish := range r.dishes {
		out = append(out, dish)
	}
	return out, nil
}

func (r *fakeMenuRepo) GetByID(id string) (*models.Dish, error) {
	return r.GetByIDTx(nil, id)
}

func (r *fakeMenuRepo) Create(dish *models.Dish) error {
	for i := range dish.Recipe {
		id, err := r.ingredients.EnsureIngredient(nil, dish.Recipe[i].IngredientName, dish.Recipe[i].Unit)
		if err != nil {
			return err
		}
		dish.Recipe[i].IngredientID = id
	}
	dish.ID = fmt.Sprintf("dish-%d", len(r.dishes)+1)
	r.dishes[dish.ID] = dish
	return nil
}

func (r *fakeMenuRepo) Update(id string, dish *models.Dish) error {
	if _, ok := r.dishes[id]; !ok {
		return apperrors.NotFoundf("dish %s not found", id)
	}
	for i := range dish.Recipe {
		ingID, err := r.ingredients.EnsureIngredient(nil, dish.Recipe[i].IngredientName, dish.Recipe[i].Unit)
		if err != nil {
			return err
		}
		dish.Recipe[i].IngredientID = ingID
	}
	dish.ID = id
	r.dishes[id] = dish
	return nil
}

func (r *fakeMenuRepo) Delete(id string) error {
	if _, ok := r.dishes[id]; !ok {
		return apperrors.NotFoundf("dish %s not found", id)
	}
	delete(r.dishes, id)
	return nil
}

func (r *fakeMenuRepo) GetByIDTx(tx *sql.Tx, id string) (*models.Dish, error) {
	dish, ok := r.dishes[id]
	if !ok {
		return nil, apperrors.NotFoundf("dish %s not found", id)
	}
	return dish, nil
}

func (r *fakeMenuRepo) RecipeTx(tx *sql.Tx, dishID string) ([]models.RecipeLine, error) {
	dish, ok := r.dishes[dishID]
	if !ok {
		return nil, apperrors.NotFoundf("dish %s not found", dishID)
	}
	return dish.Recipe, nil
}

type fakeOrderRepo struct {
	orders []*models.Order
	now    time.Time
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{now: time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)}
}

func (r *fakeOrderRepo) Create(tx *sql.Tx, order *models.Order) error {
	order.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	order.OrderDate = r.now
	for i := range order.Items {
		order.Items[i].ID = fmt.Sprintf("%s-item-%d", order.ID, i+1)
		order.Items[i].OrderID = order.ID
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) GetAll(filter models.OrderFilter) ([]*models.Order, error) {
	out := []*models.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		order := r.orders[i]
		day := order.OrderDate.Truncate(24 * time.Hour)
		if filter.StartDate != nil && day.Before(filter.StartDate.Truncate(24*time.Hour)) {
			continue
		}
		if filter.EndDate != nil && day.After(filter.EndDate.Truncate(24*time.Hour)) {
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByID(id string) (*models.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, apperrors.NotFoundf("order %s not found", id)
}
