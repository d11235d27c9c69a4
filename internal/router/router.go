package router

import (
	"net/http"

	"bistro/internal/handler"
	"bistro/internal/metrics"
)

// NewRouter wires every endpoint onto a ServeMux. The route table is the
// single place the HTTP surface is declared.
func NewRouter(
	orderHandler *handler.OrderHandler,
	menuHandler *handler.MenuHandler,
	inventoryHandler *handler.InventoryHandler,
	reportHandler *handler.ReportHandler,
	m *metrics.Registry,
	healthCheck http.HandlerFunc,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Inventory. The alerts route must be registered before the {id}
	// pattern would otherwise shadow it; ServeMux prefers the literal.
	mux.HandleFunc("GET /api/v1/inventory", inventoryHandler.ListIngredients)
	mux.HandleFunc("POST /api/v1/inventory", inventoryHandler.AddIngredient)
	mux.HandleFunc("GET /api/v1/inventory/alerts", inventoryHandler.LowStockAlerts)
	mux.HandleFunc("GET /api/v1/inventory/{id}", inventoryHandler.GetIngredient)
	mux.HandleFunc("PUT /api/v1/inventory/{id}", inventoryHandler.UpdateIngredient)
	mux.HandleFunc("DELETE /api/v1/inventory/{id}", inventoryHandler.DeleteIngredient)

	// Menu
	mux.HandleFunc("GET /api/v1/menu", menuHandler.ListDishes)
	mux.HandleFunc("POST /api/v1/menu", menuHandler.CreateDish)
	mux.HandleFunc("GET /api/v1/menu/{id}", menuHandler.GetDish)
	mux.HandleFunc("PUT /api/v1/menu/{id}", menuHandler.UpdateDish)
	mux.HandleFunc("DELETE /api/v1/menu/{id}", menuHandler.DeleteDish)

	// Orders
	mux.HandleFunc("POST /api/v1/orders", orderHandler.PlaceOrder)
	mux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders)
	mux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder)

	// Reports
	mux.HandleFunc("GET /api/v1/reports/orders.csv", reportHandler.ExportOrdersCSV)

	// Operational
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /health", healthCheck)

	return mux
}
