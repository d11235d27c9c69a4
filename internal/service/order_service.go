package service

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"bistro/internal/apperrors"
	"bistro/internal/metrics"
	"bistro/internal/repositories"
	"bistro/models"
	"bistro/pkg/logger"

	"github.com/shopspring/decimal"
)

// TxRunner executes a function inside one database transaction. The order
// engine runs its whole check-then-commit sequence through a single call so
// the sufficiency check and the stock decrement see the same snapshot.
type TxRunner interface {
	ExecuteInTransaction(fn func(*sql.Tx) error) error
}

// PlaceOrderRequest is the basket a caller submits to place an order.
type PlaceOrderRequest struct {
	Items []models.BasketLine `json:"items"`
}

type OrderServiceInterface interface {
	PlaceOrder(req PlaceOrderRequest) (*models.Order, error)
	GetAllOrders(filter models.OrderFilter) ([]*models.Order, error)
	GetOrderByID(id string) (*models.Order, error)
}

// OrderService is the order placement and stock-reconciliation engine.
type OrderService struct {
	tx            TxRunner
	orderRepo     repositories.OrderRepositoryInterface
	menuRepo      repositories.MenuRepositoryInterface
	inventoryRepo repositories.InventoryRepositoryInterface
	vatRate       decimal.Decimal
	metrics       *metrics.Registry
	logger        *logger.Logger
}

func NewOrderService(tx TxRunner, orderRepo repositories.OrderRepositoryInterface, menuRepo repositories.MenuRepositoryInterface, inventoryRepo repositories.InventoryRepositoryInterface, vatRate float64, m *metrics.Registry, logger *logger.Logger) *OrderService {
	return &OrderService{
		tx:            tx,
		orderRepo:     orderRepo,
		menuRepo:      menuRepo,
		inventoryRepo: inventoryRepo,
		vatRate:       decimal.NewFromFloat(vatRate),
		metrics:       m,
		logger:        logger.WithComponent("order_service"),
	}
}

// ingredientNeed is the aggregated demand for one ingredient across every
// basket line.
type ingredientNeed struct {
	name   string
	unit   models.Unit
	needed float64
}

// PlaceOrder validates the basket, aggregates ingredient demand, checks
// stock sufficiency and commits the order, its items and the stock
// decrements as one transaction. Nothing is persisted on any failure.
func (s *OrderService) PlaceOrder(req PlaceOrderRequest) (*models.Order, error) {
	start := time.Now()

	order, err := s.placeOrder(req)

	s.metrics.OrderLatencySec.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.OrdersRejected.Inc()
		return nil, err
	}
	s.metrics.OrdersPlaced.Inc()
	return order, nil
}

func (s *OrderService) placeOrder(req PlaceOrderRequest) (*models.Order, error) {
	s.logger.Info("Placing order", "lines", len(req.Items))

	if err := s.validateBasket(req.Items); err != nil {
		s.logger.Warn("Order rejected: invalid basket", "error", err)
		return nil, err
	}

	var order *models.Order
	err := s.tx.ExecuteInTransaction(func(tx *sql.Tx) error {
		// Dish resolution. Duplicate dish ids in the basket stay separate
		// order items and accumulate into the subtotal.
		dishes := map[string]*models.Dish{}
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			dish, ok := dishes[line.DishID]
			if !ok {
				var err error
				dish, err = s.menuRepo.GetByIDTx(tx, line.DishID)
				if err != nil {
					return err
				}
				dishes[line.DishID] = dish
			}

			linePrice := decimal.NewFromFloat(dish.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(linePrice)
			items = append(items, models.OrderItem{
				DishID:    dish.ID,
				DishName:  dish.Name,
				Quantity:  line.Quantity,
				LinePrice: toAmount(roundCurrency(linePrice)),
			})
		}

		// Tax computation. The VAT amount is derived from the exact
		// subtotal; the stored subtotal is rounded at commit time.
		subtotalRounded := roundCurrency(subtotal)
		vatAmount := roundCurrency(subtotal.Mul(s.vatRate))
		total := roundCurrency(subtotalRounded.Add(vatAmount))

		// Demand aggregation across all lines and all dishes.
		needs := map[string]*ingredientNeed{}
		recipes := map[string][]models.RecipeLine{}
		for _, line := range req.Items {
			recipe, ok := recipes[line.DishID]
			if !ok {
				var err error
				recipe, err = s.menuRepo.RecipeTx(tx, line.DishID)
				if err != nil {
					return err
				}
				if len(recipe) == 0 {
					return apperrors.EmptyRecipef("dish %s has no ingredients defined", dishes[line.DishID].Name)
				}
				recipes[line.DishID] = recipe
			}

			for _, rl := range recipe {
				need, ok := needs[rl.IngredientID]
				if !ok {
					need = &ingredientNeed{name: rl.IngredientName, unit: rl.Unit}
					needs[rl.IngredientID] = need
				}
				need.needed += rl.QuantityNeeded * float64(line.Quantity)
			}
		}

		ids := make([]string, 0, len(needs))
		for id := range needs {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		// Sufficiency check against row-locked stock: the snapshot the
		// decrement below operates on.
		stock, err := s.inventoryRepo.StockForUpdate(tx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			need := needs[id]
			have, ok := stock[id]
			if !ok {
				return apperrors.NotFoundf("ingredient %s not found in inventory", need.name)
			}
			if have < need.needed {
				return apperrors.InsufficientStockf("not enough %s (need %v%s, have %v%s)",
					need.name, need.needed, need.unit, have, need.unit)
			}
		}

		// Commit: order row, one item per basket line, stock decrements.
		order = &models.Order{
			Subtotal:  toAmount(subtotalRounded),
			VATRate:   toAmount(s.vatRate),
			VATAmount: toAmount(vatAmount),
			Total:     toAmount(total),
			Items:     items,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.inventoryRepo.AdjustStock(tx, id, -needs[id].needed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Order attempt failed", "error", err)
		return nil, err
	}

	s.logger.Info("Order placed", "order_id", order.ID, "total", order.Total)
	return order, nil
}

// GetAllOrders retrieves orders matching the filter. Date bounds are pushed
// to storage; the dish-name match runs after each order's items are loaded.
func (s *OrderService) GetAllOrders(filter models.OrderFilter) ([]*models.Order, error) {
	s.logger.Info("Fetching orders", "dish_filter", filter.DishName)

	orders, err := s.orderRepo.GetAll(filter)
	if err != nil {
		s.logger.Error("Failed to fetch orders", "error", err)
		return nil, err
	}

	if filter.DishName != "" {
		orders = filterOrdersByDishName(orders, filter.DishName)
	}

	s.logger.Info("Fetched orders", "count", len(orders))
	return orders, nil
}

// GetOrderByID retrieves a specific order by ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	if id == "" {
		return nil, apperrors.Validationf("order ID is required")
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		s.logger.Warn("Order not found", "order_id", id, "error", err)
		return nil, err
	}

	return order, nil
}

func (s *OrderService) validateBasket(items []models.BasketLine) error {
	if len(items) == 0 {
		return apperrors.Validationf("basket must contain at least one dish")
	}
	for i, line := range items {
		if line.DishID == "" {
			return apperrors.Validationf("line %d: dish ID is required", i+1)
		}
		if line.Quantity <= 0 {
			return apperrors.Validationf("line %d: quantity must be positive", i+1)
		}
	}
	return nil
}

func filterOrdersByDishName(orders []*models.Order, name string) []*models.Order {
	needle := strings.ToLower(name)
	filtered := []*models.Order{}
	for _, order := range orders {
		for _, item := range order.Items {
			if strings.Contains(strings.ToLower(item.DishName), needle) {
				filtered = append(filtered, order)
				break
			}
		}
	}
	return filtered
}
