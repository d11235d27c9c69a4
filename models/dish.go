package models

// Dish is a menu entry priced per unit and composed from ingredients via its
// recipe. The recipe is replaced wholesale on update, never merged.
type Dish struct {
	ID     string       `json:"dish_id"`
	Name   string       `json:"name"`
	Price  float64      `json:"price"`
	Recipe []RecipeLine `json:"recipe"`
}

// RecipeLine states how much of one ingredient a single unit of the dish
// consumes. On writes the ingredient is addressed by name and unit so that
// unknown names can be auto-vivified at zero stock; on reads IngredientID
// and Stock are resolved from the inventory.
type RecipeLine struct {
	IngredientID   string  `json:"ingredient_id,omitempty"`
	IngredientName string  `json:"name"`
	QuantityNeeded float64 `json:"qty_needed"`
	Unit           Unit    `json:"unit"`
	Stock          float64 `json:"stock,omitempty"`
}

// DishFilter narrows dish listings. Op applies to Price and is "le" or "ge".
type DishFilter struct {
	Name  string
	Price *float64
	Op    string
}
