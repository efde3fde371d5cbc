package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// MissingProductError reports a line item whose product id does not exist.
type MissingProductError struct {
	ProductID int
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("Producto %d no encontrado", e.ProductID)
}

// Is lets errors.Is match utils.ErrProductNotFound.
func (e *MissingProductError) Is(target error) bool {
	return target == utils.ErrProductNotFound
}

// OrderFilter narrows the order listing. Zero values are ignored.
type OrderFilter struct {
	Status string
	From   *time.Time // inclusive
	To     *time.Time // exclusive
}

// OrderRepository handles data access for orders and their line items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderHeaderColumns = `p.id_pedido, p.fecha_pedido, p.fecha_limite, p.id_cliente, p.id_canal,
        p.costo_envio, p.requiere_envio, p.direccion_envio, p.notas, p.metodo_pago, p.estado,
        p.subtotal, p.total, p.ultima_edicion, p.created_at, c.nombre_cliente, cv.nombre_canal`

// List returns orders joined with client and channel names, newest first.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := `SELECT ` + orderHeaderColumns + `
        FROM pedidos p
        JOIN clientes c ON c.id_cliente = p.id_cliente
        JOIN canales_venta cv ON cv.id_canal = p.id_canal
        WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.Status != "" {
		q += fmt.Sprintf(" AND p.estado = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.From != nil {
		q += fmt.Sprintf(" AND p.fecha_pedido >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		q += fmt.Sprintf(" AND p.fecha_pedido < $%d", argIdx)
		args = append(args, *f.To)
	}
	q += ` ORDER BY p.fecha_pedido DESC, p.id_pedido DESC`

	orders := []models.Order{}
	if err := r.db.SelectContext(ctx, &orders, q, args...); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID returns the order header with client contact data and its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	const headerQuery = `SELECT ` + orderHeaderColumns + `, c.telefono, c.direccion
        FROM pedidos p
        JOIN clientes c ON c.id_cliente = p.id_cliente
        JOIN canales_venta cv ON cv.id_canal = p.id_canal
        WHERE p.id_pedido = $1`

	var o models.Order
	if err := r.db.GetContext(ctx, &o, headerQuery, id); err != nil {
		return nil, err
	}

	const linesQuery = `SELECT dp.id_detalle, dp.id_pedido, dp.id_producto, dp.cantidad,
            dp.precio_unitario, dp.subtotal, pr.nombre_producto
        FROM detalle_pedidos dp
        JOIN productos pr ON pr.id_producto = dp.id_producto
        WHERE dp.id_pedido = $1
        ORDER BY dp.id_detalle`

	o.Lines = []models.OrderLine{}
	if err := r.db.SelectContext(ctx, &o.Lines, linesQuery, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create writes the order header and every line item in one transaction.
// Unit prices are read from productos inside the transaction, never taken
// from the caller; the header subtotal is persisted as their sum. Any
// failure rolls the whole order back.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, lines []models.LineInput) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `INSERT INTO pedidos (fecha_pedido, fecha_limite, id_cliente, id_canal, costo_envio,
                requiere_envio, direccion_envio, notas, metodo_pago, estado, subtotal)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
            RETURNING id_pedido, created_at`

		err := tx.QueryRowxContext(ctx, q,
			order.OrderDate, order.DueDate, order.ClientID, order.ChannelID, order.ShippingCost,
			order.RequiresShipping, order.ShippingAddress, order.Notes, order.PaymentMethod, order.Status,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert pedido: %w", err)
		}

		return r.writeLines(ctx, tx, order, lines, nil)
	})
}

// Replace overwrites an order's header and line items in one transaction.
// Products already on the order keep the unit price captured earlier; only
// newly added products read the current price. It returns sql.ErrNoRows when
// the order does not exist.
func (r *OrderRepository) Replace(ctx context.Context, order *models.Order, lines []models.LineInput) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `UPDATE pedidos
            SET fecha_pedido = $1, fecha_limite = $2, id_cliente = $3, id_canal = $4, costo_envio = $5,
                requiere_envio = $6, direccion_envio = $7, notas = $8, metodo_pago = $9,
                estado = COALESCE(NULLIF($10, ''), estado), subtotal = 0, ultima_edicion = NOW()
            WHERE id_pedido = $11
            RETURNING estado, created_at`

		err := tx.QueryRowxContext(ctx, q,
			order.OrderDate, order.DueDate, order.ClientID, order.ChannelID, order.ShippingCost,
			order.RequiresShipping, order.ShippingAddress, order.Notes, order.PaymentMethod,
			string(order.Status), order.ID,
		).Scan(&order.Status, &order.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sql.ErrNoRows
			}
			return fmt.Errorf("update pedido: %w", err)
		}

		captured, err := capturedPrices(ctx, tx, order.ID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM detalle_pedidos WHERE id_pedido = $1`, order.ID); err != nil {
			return fmt.Errorf("delete detalles: %w", err)
		}

		return r.writeLines(ctx, tx, order, lines, captured)
	})
}

// capturedPrices returns the unit price already stored for each product on
// the order. The first line wins when a product appears more than once.
func capturedPrices(ctx context.Context, tx *sqlx.Tx, orderID int) (map[int]decimal.Decimal, error) {
	var rows []struct {
		ProductID int             `db:"id_producto"`
		UnitPrice decimal.Decimal `db:"precio_unitario"`
	}
	const q = `SELECT id_producto, precio_unitario FROM detalle_pedidos
        WHERE id_pedido = $1 ORDER BY id_detalle`
	if err := tx.SelectContext(ctx, &rows, q, orderID); err != nil {
		return nil, fmt.Errorf("read detalles pedido %d: %w", orderID, err)
	}

	prices := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		if _, ok := prices[row.ProductID]; !ok {
			prices[row.ProductID] = row.UnitPrice
		}
	}
	return prices, nil
}

// writeLines inserts the line items and stores the accumulated subtotal on
// the header. A product found in captured keeps that price; any other product
// is priced from productos.
func (r *OrderRepository) writeLines(ctx context.Context, tx *sqlx.Tx, order *models.Order, lines []models.LineInput, captured map[int]decimal.Decimal) error {
	subtotal := decimal.Zero
	for _, line := range lines {
		price, ok := captured[line.ProductID]
		if !ok {
			err := tx.GetContext(ctx, &price, `SELECT precio FROM productos WHERE id_producto = $1`, line.ProductID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return &MissingProductError{ProductID: line.ProductID}
				}
				return fmt.Errorf("read precio producto %d: %w", line.ProductID, err)
			}
		}

		const insertLine = `INSERT INTO detalle_pedidos (id_pedido, id_producto, cantidad, precio_unitario)
            VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, insertLine, order.ID, line.ProductID, line.Quantity, price); err != nil {
			return fmt.Errorf("insert detalle producto %d: %w", line.ProductID, err)
		}

		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	const q = `UPDATE pedidos SET subtotal = $1 WHERE id_pedido = $2 RETURNING total, ultima_edicion`
	if err := tx.QueryRowxContext(ctx, q, subtotal, order.ID).Scan(&order.Total, &order.LastEditedAt); err != nil {
		return fmt.Errorf("update subtotal: %w", err)
	}
	order.Subtotal = subtotal
	return nil
}

// UpdateStatus sets the order status. Re-applying the current status is a
// no-op: ultima_edicion only moves when the value changes.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	const q = `UPDATE pedidos
        SET ultima_edicion = CASE WHEN estado IS DISTINCT FROM $1 THEN NOW() ELSE ultima_edicion END,
            estado = $1
        WHERE id_pedido = $2`

	res, err := r.db.ExecContext(ctx, q, status, id)
	return expectAffected(res, err)
}

// inTx runs fn on a single connection inside a transaction, committing on
// success and rolling back on any error.
func (r *OrderRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("order transaction rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
