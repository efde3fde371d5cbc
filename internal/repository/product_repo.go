package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ministore_api/internal/models"
)

const productColumns = `p.id_producto, p.nombre_producto, p.descripcion, p.precio, p.tamano,
        p.imagen_url, p.id_categoria, p.activo, p.created_at`

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListActive returns active products joined with their category name, ordered
// by name. A nil categoryID returns every category.
func (r *ProductRepository) ListActive(ctx context.Context, categoryID *int) ([]models.Product, error) {
	q := `SELECT ` + productColumns + `, c.nombre_categoria
        FROM productos p
        JOIN categorias c ON c.id_categoria = p.id_categoria
        WHERE p.activo = TRUE`
	args := []interface{}{}
	if categoryID != nil {
		q += ` AND p.id_categoria = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY p.nombre_producto ASC`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, args...); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a product whether or not it is active.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	const q = `SELECT ` + productColumns + `, c.nombre_categoria
        FROM productos p
        LEFT JOIN categorias c ON c.id_categoria = p.id_categoria
        WHERE p.id_producto = $1`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product and fills its generated fields.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `INSERT INTO productos (nombre_producto, descripcion, precio, tamano, imagen_url, id_categoria)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id_producto, activo, created_at`

	return r.db.QueryRowxContext(ctx, q,
		p.Name, p.Description, p.Price, p.Size, p.ImageURL, p.CategoryID,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt)
}

// Update overwrites the editable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	const q = `UPDATE productos
        SET nombre_producto = $1, descripcion = $2, precio = $3, tamano = $4, imagen_url = $5, id_categoria = $6
        WHERE id_producto = $7`

	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.Size, p.ImageURL, p.CategoryID, p.ID,
	)
	return expectAffected(res, err)
}

// SetImageURL stores the public URL of an uploaded product image.
func (r *ProductRepository) SetImageURL(ctx context.Context, id int, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE productos SET imagen_url = $1 WHERE id_producto = $2`, url, id)
	return expectAffected(res, err)
}

// SoftDelete marks a product inactive. Order history keeps referencing it.
func (r *ProductRepository) SoftDelete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE productos SET activo = FALSE WHERE id_producto = $1`, id)
	return expectAffected(res, err)
}

// expectAffected turns a zero-row write into sql.ErrNoRows.
func expectAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
