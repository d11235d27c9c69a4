package service

import (
	"testing"

	"bistro/internal/apperrors"
	"bistro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenuFixture() (*MenuService, *fakeMenuRepo, *fakeInventoryRepo) {
	inventory := newFakeInventoryRepo()
	menu := newFakeMenuRepo(inventory)
	return NewMenuService(menu, testLogger()), menu, inventory
}

func TestCreateDishValidation(t *testing.T) {
	svc, _, _ := newMenuFixture()

	cases := []struct {
		name string
		req  DishRequest
	}{
		{"missing name", DishRequest{Price: 5}},
		{"zero price", DishRequest{Name: "Bread", Price: 0}},
		{"negative price", DishRequest{Name: "Bread", Price: -1}},
		{"recipe line missing name", DishRequest{Name: "Bread", Price: 2, Recipe: []RecipeLineRequest{{QtyNeeded: 200, Unit: "g"}}}},
		{"recipe line zero quantity", DishRequest{Name: "Bread", Price: 2, Recipe: []RecipeLineRequest{{Name: "flour", QtyNeeded: 0, Unit: "g"}}}},
		{"recipe line bad unit", DishRequest{Name: "Bread", Price: 2, Recipe: []RecipeLineRequest{{Name: "flour", QtyNeeded: 200, Unit: "cup"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateDish(tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		})
	}
}

func TestCreateDishAutoVivifiesIngredients(t *testing.T) {
	svc, _, inventory := newMenuFixture()

	dish, err := svc.CreateDish(DishRequest{
		Name:  "Bread",
		Price: 2.50,
		Recipe: []RecipeLineRequest{
			{Name: "flour", QtyNeeded: 200, Unit: "g"},
			{Name: "yeast", QtyNeeded: 5, Unit: "g"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, dish.ID)
	require.Len(t, dish.Recipe, 2)

	// Unknown ingredient names appear in the catalog at zero stock.
	require.Len(t, inventory.items, 2)
	for _, item := range inventory.items {
		assert.Zero(t, item.Quantity)
		assert.Equal(t, models.UnitGram, item.Unit)
	}
}

func TestCreateDishUnitMismatch(t *testing.T) {
	svc, menu, inventory := newMenuFixture()
	inventory.add("ing-1", "milk", 1000, models.UnitMilliliter)

	_, err := svc.CreateDish(DishRequest{
		Name:  "Porridge",
		Price: 3.00,
		Recipe: []RecipeLineRequest{
			{Name: "milk", QtyNeeded: 200, Unit: "g"},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindUnitMismatch))

	// The conflict leaves both catalogs untouched.
	assert.Empty(t, menu.dishes)
	assert.Equal(t, models.UnitMilliliter, inventory.items["ing-1"].Unit)
}

func TestUpdateDishReplacesRecipe(t *testing.T) {
	svc, menu, inventory := newMenuFixture()
	inventory.add("ing-1", "flour", 500, models.UnitGram)
	menu.add(&models.Dish{
		ID:    "dish-1",
		Name:  "Bread",
		Price: 2.00,
		Recipe: []models.RecipeLine{
			{IngredientID: "ing-1", IngredientName: "flour", QuantityNeeded: 200, Unit: models.UnitGram},
		},
	})

	err := svc.UpdateDish("dish-1", DishRequest{
		Name:  "Sourdough",
		Price: 4.00,
		Recipe: []RecipeLineRequest{
			{Name: "flour", QtyNeeded: 350, Unit: "g"},
		},
	})
	require.NoError(t, err)

	updated := menu.dishes["dish-1"]
	assert.Equal(t, "Sourdough", updated.Name)
	assert.Equal(t, 4.00, updated.Price)
	require.Len(t, updated.Recipe, 1)
	assert.Equal(t, 350.0, updated.Recipe[0].QuantityNeeded)
}

func TestUpdateDishNotFound(t *testing.T) {
	svc, _, _ := newMenuFixture()

	err := svc.UpdateDish("dish-404", DishRequest{Name: "Bread", Price: 2.00})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestDeleteDish(t *testing.T) {
	svc, menu, _ := newMenuFixture()
	menu.add(&models.Dish{ID: "dish-1", Name: "Bread", Price: 2.00})

	require.NoError(t, svc.DeleteDish("dish-1"))
	assert.Empty(t, menu.dishes)

	err := svc.DeleteDish("dish-1")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
