package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/utils"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func sampleOrder() *models.Order {
	return &models.Order{
		OrderDate:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		ClientID:      3,
		ChannelID:     1,
		ShippingCost:  decimal.RequireFromString("5.00"),
		PaymentMethod: models.DefaultPaymentMethod,
		Status:        models.OrderStatusPending,
	}
}

func TestOrderCreateCapturesCurrentPrices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	created := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pedidos")).
		WillReturnRows(sqlmock.NewRows([]string{"id_pedido", "created_at"}).AddRow(42, created))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos WHERE id_producto = $1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}).AddRow("2.50"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WithArgs(42, 7, 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos WHERE id_producto = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}).AddRow("10.00"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WithArgs(42, 9, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pedidos SET subtotal = $1 WHERE id_pedido = $2")).
		WithArgs(sqlmock.AnyArg(), 42).
		WillReturnRows(sqlmock.NewRows([]string{"total", "ultima_edicion"}).AddRow("22.50", nil))
	mock.ExpectCommit()

	order := sampleOrder()
	err := repo.Create(context.Background(), order, []models.LineInput{
		{ProductID: 7, Quantity: 3},
		{ProductID: 9, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 42, order.ID)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("17.50")), "subtotal %s", order.Subtotal)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("22.50")))
	assert.Nil(t, order.LastEditedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateRollsBackOnMissingProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pedidos")).
		WillReturnRows(sqlmock.NewRows([]string{"id_pedido", "created_at"}).AddRow(43, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}).AddRow("2.50"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos")).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleOrder(), []models.LineInput{
		{ProductID: 7, Quantity: 1},
		{ProductID: 999, Quantity: 2},
	})
	require.Error(t, err)

	var missing *MissingProductError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 999, missing.ProductID)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
	assert.Equal(t, "Producto 999 no encontrado", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateRollsBackOnLineInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pedidos")).
		WillReturnRows(sqlmock.NewRows([]string{"id_pedido", "created_at"}).AddRow(44, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos")).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}).AddRow("1.00"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleOrder(), []models.LineInput{{ProductID: 1, Quantity: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderReplaceUnknownOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pedidos")).
		WillReturnRows(sqlmock.NewRows([]string{"estado", "created_at"}))
	mock.ExpectRollback()

	order := sampleOrder()
	order.ID = 77
	err := repo.Replace(context.Background(), order, []models.LineInput{{ProductID: 1, Quantity: 1}})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderReplaceRewritesLines(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	edited := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pedidos")).
		WillReturnRows(sqlmock.NewRows([]string{"estado", "created_at"}).AddRow("completado", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id_producto, precio_unitario FROM detalle_pedidos")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id_producto", "precio_unitario"}).AddRow(8, "1.00"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM detalle_pedidos WHERE id_pedido = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}).AddRow("4.25"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WithArgs(5, 2, 4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pedidos SET subtotal")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "ultima_edicion"}).AddRow("22.00", edited))
	mock.ExpectCommit()

	order := sampleOrder()
	order.ID = 5
	order.Status = ""
	err := repo.Replace(context.Background(), order, []models.LineInput{{ProductID: 2, Quantity: 4}})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("17")))
	require.NotNil(t, order.LastEditedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderReplaceKeepsCapturedPrices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pedidos")).
		WillReturnRows(sqlmock.NewRows([]string{"estado", "created_at"}).AddRow("pendiente", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id_producto, precio_unitario FROM detalle_pedidos")).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id_producto", "precio_unitario"}).
			AddRow(7, "2.50").
			AddRow(3, "9.99"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM detalle_pedidos WHERE id_pedido = $1")).
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 2))

	// product 7 now costs 4.00 in productos but keeps the 2.50 it was sold at
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WithArgs(6, 7, 2, decimal.RequireFromString("2.50")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT precio FROM productos WHERE id_producto = $1")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"precio"}).AddRow("6.00"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO detalle_pedidos")).
		WithArgs(6, 11, 1, decimal.RequireFromString("6.00")).
		WillReturnResult(sqlmock.NewResult(2, 1))

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pedidos SET subtotal = $1 WHERE id_pedido = $2")).
		WithArgs(decimal.RequireFromString("11.00"), 6).
		WillReturnRows(sqlmock.NewRows([]string{"total", "ultima_edicion"}).AddRow("16.00", time.Now()))
	mock.ExpectCommit()

	order := sampleOrder()
	order.ID = 6
	err := repo.Replace(context.Background(), order, []models.LineInput{
		{ProductID: 7, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("11")), "subtotal %s", order.Subtotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pedidos")).
		WithArgs("completado", 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pedidos")).
		WithArgs("completado", 404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.UpdateStatus(context.Background(), 8, "completado"))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 404, "completado"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`p\.estado = \$1 AND p\.fecha_pedido >= \$2 AND p\.fecha_pedido < \$3 ORDER BY`).
		WithArgs("pendiente", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id_pedido", "estado", "nombre_cliente", "nombre_canal"}).
			AddRow(1, "pendiente", "Ana", "WhatsApp"))

	orders, err := repo.List(context.Background(), OrderFilter{Status: "pendiente", From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ana", orders[0].ClientName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGetByIDLoadsLines(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_pedido = $1")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id_pedido", "subtotal", "total", "nombre_cliente", "telefono", "direccion"}).
			AddRow(10, "6.00", "6.00", "Luis", "555-0101", nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM detalle_pedidos dp")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id_detalle", "id_pedido", "id_producto", "cantidad", "precio_unitario", "subtotal", "nombre_producto"}).
			AddRow(1, 10, 4, 2, "3.00", "6.00", "Pan dulce"))

	order, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Pan dulce", order.Lines[0].ProductName)
	require.NotNil(t, order.ClientPhone)
	assert.Equal(t, "555-0101", *order.ClientPhone)
	assert.Nil(t, order.ClientAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_pedido = $1")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id_pedido"}))

	_, err := repo.GetByID(context.Background(), 11)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
