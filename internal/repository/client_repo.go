package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ministore_api/internal/models"
)

// ClientRepository provides data access methods for the clientes table.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ListActive returns active clients ordered by name.
func (r *ClientRepository) ListActive(ctx context.Context) ([]models.Client, error) {
	const q = `SELECT id_cliente, nombre_cliente, telefono, direccion, notas, activo, created_at
        FROM clientes
        WHERE activo = TRUE
        ORDER BY nombre_cliente`

	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, q); err != nil {
		return nil, err
	}
	return clients, nil
}

// GetByID finds a client by id, active or not.
func (r *ClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	const q = `SELECT id_cliente, nombre_cliente, telefono, direccion, notas, activo, created_at
        FROM clientes WHERE id_cliente = $1`

	var c models.Client
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	const q = `INSERT INTO clientes (nombre_cliente, telefono, direccion, notas)
        VALUES ($1, $2, $3, $4)
        RETURNING id_cliente, activo, created_at`

	return r.db.QueryRowxContext(ctx, q, c.Name, c.Phone, c.Address, c.Notes).
		Scan(&c.ID, &c.IsActive, &c.CreatedAt)
}

// Update overwrites the contact fields of a client.
func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	const q = `UPDATE clientes
        SET nombre_cliente = $1, telefono = $2, direccion = $3, notas = $4
        WHERE id_cliente = $5`

	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.Address, c.Notes, c.ID)
	return expectAffected(res, err)
}

// SoftDelete marks a client inactive.
func (r *ClientRepository) SoftDelete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE clientes SET activo = FALSE WHERE id_cliente = $1`, id)
	return expectAffected(res, err)
}
