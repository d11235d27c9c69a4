package repositories

import (
	"database/sql"
	"fmt"

	"bistro/internal/apperrors"
	"bistro/models"
	"bistro/pkg/database"
	"bistro/pkg/logger"
)

// OrderRepositoryInterface persists immutable orders. Create runs inside the
// order engine's transaction; the reads load items eagerly with dish names
// resolved. There is no update or delete: orders are append-only.
type OrderRepositoryInterface interface {
	Create(tx *sql.Tx, order *models.Order) error
	GetAll(filter models.OrderFilter) ([]*models.Order, error)
	GetByID(id string) (*models.Order, error)
}

type OrderRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewOrderRepository(logger *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		logger: logger.WithComponent("order_repository"),
		db:     db,
	}
}

// Create inserts the order row and one row per item inside the caller's
// transaction, filling in generated ids and the order date.
func (r *OrderRepository) Create(tx *sql.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (subtotal, vat_rate, vat_amount, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_date
	`

	err := tx.QueryRow(query, order.Subtotal, order.VATRate, order.VATAmount, order.Total).
		Scan(&order.ID, &order.OrderDate)
	if err != nil {
		r.logger.Error("Failed to insert order", "error", err)
		return apperrors.Storage("failed to insert order", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, dish_id, quantity, line_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(itemQuery, order.ID, item.DishID, item.Quantity, item.LinePrice).Scan(&item.ID); err != nil {
			r.logger.Error("Failed to insert order item", "error", err, "dish_id", item.DishID)
			return apperrors.Storage("failed to insert order item", err)
		}
	}

	r.logger.Info("Inserted order", "order_id", order.ID, "items", len(order.Items), "total", order.Total)
	return nil
}

// GetAll retrieves orders newest first. Date bounds are inclusive and
// compare calendar dates only; the dish-name filter is intentionally NOT
// applied here — the service post-filters after items are loaded.
func (r *OrderRepository) GetAll(filter models.OrderFilter) ([]*models.Order, error) {
	r.logger.Debug("Retrieving orders from database")

	query := `
		SELECT id, order_date, subtotal, vat_rate, vat_amount, total
		FROM orders
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.StartDate != nil {
		args = append(args, filter.StartDate.Format("2006-01-02"))
		query += fmt.Sprintf(" AND order_date::date >= $%d::date", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, filter.EndDate.Format("2006-01-02"))
		query += fmt.Sprintf(" AND order_date::date <= $%d::date", len(args))
	}
	query += " ORDER BY order_date DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query orders", "error", err)
		return nil, apperrors.Storage("failed to query orders", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.OrderDate, &order.Subtotal, &order.VATRate, &order.VATAmount, &order.Total); err != nil {
			r.logger.Error("Failed to scan order", "error", err)
			return nil, apperrors.Storage("failed to scan order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating order rows", "error", err)
		return nil, apperrors.Storage("error iterating order rows", err)
	}

	for _, order := range orders {
		if err := r.loadItems(order); err != nil {
			return nil, err
		}
	}

	r.logger.Info("Retrieved orders", "count", len(orders))
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	r.logger.Debug("Retrieving order from database", "order_id", id)

	query := `
		SELECT id, order_date, subtotal, vat_rate, vat_amount, total
		FROM orders
		WHERE id = $1
	`

	order := &models.Order{}
	err := r.db.QueryRow(query, id).
		Scan(&order.ID, &order.OrderDate, &order.Subtotal, &order.VATRate, &order.VATAmount, &order.Total)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Order not found", "order_id", id)
			return nil, apperrors.NotFoundf("order %s not found", id)
		}
		r.logger.Error("Failed to retrieve order", "error", err, "order_id", id)
		return nil, apperrors.Storage("failed to retrieve order", err)
	}

	if err := r.loadItems(order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) loadItems(order *models.Order) error {
	query := `
		SELECT oi.id, oi.dish_id, d.name, oi.quantity, oi.line_price
		FROM order_items oi
		JOIN dishes d ON d.id = oi.dish_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.db.Query(query, order.ID)
	if err != nil {
		r.logger.Error("Failed to query order items", "error", err, "order_id", order.ID)
		return apperrors.Storage("failed to query order items", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		item := models.OrderItem{OrderID: order.ID}
		if err := rows.Scan(&item.ID, &item.DishID, &item.DishName, &item.Quantity, &item.LinePrice); err != nil {
			return apperrors.Storage("failed to scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return apperrors.Storage("error iterating order item rows", err)
	}

	order.Items = items
	return nil
}
