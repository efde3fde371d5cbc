package service

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/utils"
)

type stubImages struct{ url string }

func (s *stubImages) UploadProductImage(ctx context.Context, productID int, filename, contentType string, body io.Reader, size int64) (string, error) {
	return s.url, nil
}

func newProductService(t *testing.T, images ImageStore) (*ProductService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewProductService(repository.NewProductRepository(db), repository.NewLookupRepository(db), images), mock
}

func productRow(id int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id_producto", "nombre_producto", "precio", "id_categoria", "activo", "created_at", "nombre_categoria"}).
		AddRow(id, "Pastel", "120.00", 1, true, time.Now(), "Pasteles")
}

func TestCreateProductValidation(t *testing.T) {
	svc, mock := newProductService(t, nil)

	negative := decimal.NewFromInt(-5)
	_, err := svc.CreateProduct(context.Background(), &ProductRequest{Name: "X", Price: &negative, CategoryID: 1})
	assert.ErrorIs(t, err, utils.ErrInvalidPrice)

	price := decimal.NewFromInt(5)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	_, err = svc.CreateProduct(context.Background(), &ProductRequest{Name: "X", Price: &price, CategoryID: 99})
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	svc, mock := newProductService(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_producto = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id_producto"}))

	_, err := svc.GetProduct(context.Background(), 3)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestUpdateProductKeepsImageWhenOmitted(t *testing.T) {
	svc, mock := newProductService(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_producto = $1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id_producto", "nombre_producto", "precio", "imagen_url", "id_categoria", "activo", "created_at"}).
			AddRow(4, "Pastel", "100.00", "https://cdn/x.jpg", 1, true, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE productos")).
		WithArgs("Pastel grande", nil, sqlmock.AnyArg(), nil, "https://cdn/x.jpg", 1, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_producto = $1")).
		WillReturnRows(productRow(4))

	price := decimal.NewFromInt(150)
	_, err := svc.UpdateProduct(context.Background(), 4, &ProductRequest{Name: "Pastel grande", Price: &price, CategoryID: 1})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadImage(t *testing.T) {
	disabled, _ := newProductService(t, nil)
	_, err := disabled.UploadImage(context.Background(), 1, "a.jpg", "image/jpeg", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, utils.ErrStorageDisabled)

	svc, mock := newProductService(t, &stubImages{url: "https://cdn/productos/1/a.jpg"})
	_, err = svc.UploadImage(context.Background(), 1, "a.gif", "image/gif", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, utils.ErrInvalidImage)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_producto = $1")).WillReturnRows(productRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE productos SET imagen_url = $1")).
		WithArgs("https://cdn/productos/1/a.jpg", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id_producto = $1")).WillReturnRows(productRow(1))

	_, err = svc.UploadImage(context.Background(), 1, "a.jpg", "image/jpeg", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
