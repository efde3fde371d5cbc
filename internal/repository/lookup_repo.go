package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ministore_api/internal/models"
)

// LookupRepository reads the small reference tables used by the order and
// product forms.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository creates a new LookupRepository.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// ListCategories returns active categories.
func (r *LookupRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.SelectContext(ctx, &categories,
		`SELECT id_categoria, nombre_categoria, descripcion, activo
        FROM categorias WHERE activo = TRUE ORDER BY nombre_categoria`)
	return categories, err
}

// ListChannels returns active sales channels.
func (r *LookupRepository) ListChannels(ctx context.Context) ([]models.SalesChannel, error) {
	channels := []models.SalesChannel{}
	err := r.db.SelectContext(ctx, &channels,
		`SELECT id_canal, nombre_canal, activo FROM canales_venta WHERE activo = TRUE ORDER BY id_canal`)
	return channels, err
}

// CategoryExists reports whether a category with id exists.
func (r *LookupRepository) CategoryExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM categorias WHERE id_categoria = $1)`, id)
	return exists, err
}
