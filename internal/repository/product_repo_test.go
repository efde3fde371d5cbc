package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ministore_api/internal/models"
)

func TestProductListActiveByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`WHERE p\.activo = TRUE AND p\.id_categoria = \$1 ORDER BY p\.nombre_producto`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id_producto", "nombre_producto", "precio", "id_categoria", "activo", "nombre_categoria"}).
			AddRow(1, "Galletas", "3.50", 2, true, "Panadería"))

	category := 2
	products, err := repo.ListActive(context.Background(), &category)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("3.5")))
	require.NotNil(t, products[0].CategoryName)
	assert.Equal(t, "Panadería", *products[0].CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductListActiveWithoutFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`WHERE p\.activo = TRUE ORDER BY`).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id_producto"}))

	products, err := repo.ListActive(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductCreateReturnsGeneratedFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO productos")).
		WithArgs("Pastel", nil, sqlmock.AnyArg(), nil, nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id_producto", "activo", "created_at"}).AddRow(12, true, time.Now()))

	p := &models.Product{Name: "Pastel", Price: decimal.RequireFromString("120.00"), CategoryID: 1}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, 12, p.ID)
	assert.True(t, p.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE productos SET activo = FALSE WHERE id_producto = $1")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE productos SET activo = FALSE WHERE id_producto = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.SoftDelete(context.Background(), 4))
	assert.ErrorIs(t, repo.SoftDelete(context.Background(), 5), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
