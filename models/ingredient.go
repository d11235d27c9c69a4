package models

import "fmt"

// Unit is the measurement unit an ingredient is stocked and consumed in.
// Once an ingredient exists under a unit, every later reference to it by
// name must carry the same unit.
type Unit string

const (
	UnitGram       Unit = "g"  // mass
	UnitMilliliter Unit = "ml" // volume
	UnitPiece      Unit = "pc" // count
)

// AllowedUnits lists the valid units in display order.
var AllowedUnits = []Unit{UnitGram, UnitMilliliter, UnitPiece}

// ParseUnit validates a raw unit string against the fixed enumeration.
func ParseUnit(raw string) (Unit, error) {
	switch Unit(raw) {
	case UnitGram, UnitMilliliter, UnitPiece:
		return Unit(raw), nil
	}
	return "", fmt.Errorf("unit must be one of %v, got %q", AllowedUnits, raw)
}

type Ingredient struct {
	ID       string  `json:"ingredient_id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

// IngredientFilter narrows ingredient listings. Op applies to Quantity and
// is "ge" or "le"; empty Name disables the substring match.
type IngredientFilter struct {
	Name     string
	Quantity *float64
	Op       string
}

// LowStockAlert is a derived warning, recomputed on each request and never
// stored. Threshold is three times the recipe line quantity that triggered
// the alert.
type LowStockAlert struct {
	Ingredient string  `json:"ingredient"`
	Stock      float64 `json:"stock"`
	Unit       Unit    `json:"unit"`
	Threshold  float64 `json:"threshold"`
}

// RecipeUsage is one (ingredient, quantity-needed) pair pulled from any dish
// recipe, joined with current stock. Input rows for the alert evaluator.
type RecipeUsage struct {
	IngredientName string
	Stock          float64
	Unit           Unit
	QuantityNeeded float64
}
