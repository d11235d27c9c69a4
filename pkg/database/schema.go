package database

// Schema bootstrap. Tables are created idempotently at startup; foreign keys
// carry the cascade rules the domain relies on: deleting a dish removes its
// recipe links, deleting an order removes its items, and nothing cascades
// from ingredients or into historical order lines.

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ingredients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		quantity DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit TEXT NOT NULL CHECK (unit IN ('g', 'ml', 'pc'))
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		price DOUBLE PRECISION NOT NULL CHECK (price > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS dish_ingredients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		dish_id UUID NOT NULL REFERENCES dishes(id) ON DELETE CASCADE,
		ingredient_id UUID NOT NULL REFERENCES ingredients(id),
		quantity_needed DOUBLE PRECISION NOT NULL CHECK (quantity_needed > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		subtotal DOUBLE PRECISION NOT NULL,
		vat_rate DOUBLE PRECISION NOT NULL,
		vat_amount DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		dish_id UUID NOT NULL REFERENCES dishes(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		line_price DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dish_ingredients_dish ON dish_ingredients (dish_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_date ON orders (order_date)`,
}

// InitSchema creates the tables and indexes if they do not exist yet.
func (db *DB) InitSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.logger.Error("Failed to apply schema statement", "error", err)
			return err
		}
	}
	db.logger.Info("Database schema is up to date")
	return nil
}
