package repositories

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"bistro/models"
	"bistro/pkg/database"
	"bistro/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockOrderRepo(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	log := logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stdout"})
	return NewOrderRepository(log, database.NewFromSQL(raw, log)), mock
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestOrderGetAllDateFilterSQL(t *testing.T) {
	orderDate := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		filter  models.OrderFilter
		pattern string
		args    []driver.Value
	}{
		{
			name:    "unfiltered newest first",
			filter:  models.OrderFilter{},
			pattern: `WHERE 1=1\s+ORDER BY order_date DESC`,
		},
		{
			name:    "start bound only",
			filter:  models.OrderFilter{StartDate: datePtr(2026, time.March, 1)},
			pattern: regexp.QuoteMeta(`AND order_date::date >= $1::date ORDER BY order_date DESC`),
			args:    []driver.Value{"2026-03-01"},
		},
		{
			name:    "end bound only",
			filter:  models.OrderFilter{EndDate: datePtr(2026, time.March, 31)},
			pattern: regexp.QuoteMeta(`AND order_date::date <= $1::date ORDER BY order_date DESC`),
			args:    []driver.Value{"2026-03-31"},
		},
		{
			name: "both bounds",
			filter: models.OrderFilter{
				StartDate: datePtr(2026, time.March, 1),
				EndDate:   datePtr(2026, time.March, 31),
			},
			pattern: regexp.QuoteMeta(`AND order_date::date >= $1::date AND order_date::date <= $2::date ORDER BY order_date DESC`),
			args:    []driver.Value{"2026-03-01", "2026-03-31"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockOrderRepo(t)

			mock.ExpectQuery(tc.pattern).
				WithArgs(tc.args...).
				WillReturnRows(sqlmock.NewRows([]string{"id", "order_date", "subtotal", "vat_rate", "vat_amount", "total"}).
					AddRow("order-1", orderDate, 10.50, 0.21, 2.21, 12.71))
			mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items oi`)).
				WithArgs("order-1").
				WillReturnRows(sqlmock.NewRows([]string{"id", "dish_id", "name", "quantity", "line_price"}).
					AddRow("item-1", "dish-1", "Latte", 3, 10.50))

			orders, err := repo.GetAll(tc.filter)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, "order-1", orders[0].ID)
			require.Len(t, orders[0].Items, 1)
			assert.Equal(t, "Latte", orders[0].Items[0].DishName)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
