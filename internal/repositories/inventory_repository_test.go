package repositories

import (
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"

	"bistro/internal/apperrors"
	"bistro/models"
	"bistro/pkg/database"
	"bistro/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*InventoryRepository, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	log := logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stdout"})
	return NewInventoryRepository(log, database.NewFromSQL(raw, log)), mock
}

func beginTx(t *testing.T, repo *InventoryRepository, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := repo.db.Begin()
	require.NoError(t, err)
	return tx
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, name, quantity, unit FROM ingredients").
		WithArgs("ing-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID("ing-404")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO ingredients").
		WithArgs("flour", 500.0, models.UnitGram).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Add(&models.Ingredient{Name: "flour", Quantity: 500, Unit: models.UnitGram})
	assert.True(t, apperrors.Is(err, apperrors.KindAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureIngredientUnitMismatch(t *testing.T) {
	repo, mock := newMockRepo(t)
	tx := beginTx(t, repo, mock)

	mock.ExpectQuery("INSERT INTO ingredients").
		WithArgs("milk", models.UnitGram).
		WillReturnRows(sqlmock.NewRows([]string{"id", "unit"}).AddRow("ing-1", "ml"))

	_, err := repo.EnsureIngredient(tx, "milk", models.UnitGram)
	assert.True(t, apperrors.Is(err, apperrors.KindUnitMismatch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureIngredientVivifiesNewName(t *testing.T) {
	repo, mock := newMockRepo(t)
	tx := beginTx(t, repo, mock)

	mock.ExpectQuery("INSERT INTO ingredients").
		WithArgs("saffron", models.UnitGram).
		WillReturnRows(sqlmock.NewRows([]string{"id", "unit"}).AddRow("ing-9", "g"))

	id, err := repo.EnsureIngredient(tx, "saffron", models.UnitGram)
	require.NoError(t, err)
	assert.Equal(t, "ing-9", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockMapsCheckViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	tx := beginTx(t, repo, mock)

	mock.ExpectExec("UPDATE ingredients SET quantity").
		WithArgs(-600.0, "ing-1").
		WillReturnError(&pq.Error{Code: "23514"})

	err := repo.AdjustStock(tx, "ing-1", -600)
	assert.True(t, apperrors.Is(err, apperrors.KindInsufficientStock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func floatPtr(v float64) *float64 { return &v }

func TestGetAllFilterSQL(t *testing.T) {
	cases := []struct {
		name    string
		filter  models.IngredientFilter
		wantSQL string
		args    []driver.Value
	}{
		{
			name:    "unfiltered",
			filter:  models.IngredientFilter{},
			wantSQL: `SELECT id, name, quantity, unit FROM ingredients WHERE 1=1 ORDER BY name`,
		},
		{
			name:    "name substring",
			filter:  models.IngredientFilter{Name: "flo"},
			wantSQL: `SELECT id, name, quantity, unit FROM ingredients WHERE 1=1 AND name ILIKE $1 ORDER BY name`,
			args:    []driver.Value{"%flo%"},
		},
		{
			name:    "quantity ge",
			filter:  models.IngredientFilter{Quantity: floatPtr(100), Op: "ge"},
			wantSQL: `SELECT id, name, quantity, unit FROM ingredients WHERE 1=1 AND quantity >= $1 ORDER BY name`,
			args:    []driver.Value{100.0},
		},
		{
			name:    "quantity le",
			filter:  models.IngredientFilter{Quantity: floatPtr(50), Op: "le"},
			wantSQL: `SELECT id, name, quantity, unit FROM ingredients WHERE 1=1 AND quantity <= $1 ORDER BY name`,
			args:    []driver.Value{50.0},
		},
		{
			name:    "name and quantity combined",
			filter:  models.IngredientFilter{Name: "flo", Quantity: floatPtr(100), Op: "ge"},
			wantSQL: `SELECT id, name, quantity, unit FROM ingredients WHERE 1=1 AND name ILIKE $1 AND quantity >= $2 ORDER BY name`,
			args:    []driver.Value{"%flo%", 100.0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta(tc.wantSQL)).
				WithArgs(tc.args...).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "unit"}).
					AddRow("ing-1", "flour", 500.0, "g"))

			items, err := repo.GetAll(tc.filter)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "flour", items[0].Name)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
