package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ministore_api/internal/models"
)

// recentSalesViews whitelists the view names selectable by period, so the
// period never reaches the SQL text as user input.
var recentSalesViews = map[int]string{
	7:  "vw_ventas_7_dias",
	15: "vw_ventas_15_dias",
	30: "vw_ventas_30_dias",
}

// ReportRepository reads the reporting views and aggregates.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProfitSummary returns the 12 most recent months of vw_resumen_ganancias.
func (r *ReportRepository) ProfitSummary(ctx context.Context) ([]models.MonthlyProfit, error) {
	rows := []models.MonthlyProfit{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT mes, total_pedidos, ventas_productos, total_envios, ingresos_totales
		FROM vw_resumen_ganancias
		ORDER BY mes DESC
		LIMIT 12
	`)
	return rows, err
}

// TopProducts returns the ten best selling products.
func (r *ReportRepository) TopProducts(ctx context.Context) ([]models.TopProduct, error) {
	rows := []models.TopProduct{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id_producto, nombre_producto, total_vendido, ingresos
		FROM vw_productos_mas_vendidos
		LIMIT 10
	`)
	return rows, err
}

// RecentSales reads the view for the given period. Unknown periods read the
// 7 day view.
func (r *ReportRepository) RecentSales(ctx context.Context, days int) ([]models.RecentSale, error) {
	view, ok := recentSalesViews[days]
	if !ok {
		view = recentSalesViews[7]
	}

	rows := []models.RecentSale{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id_pedido, fecha_pedido, nombre_cliente, metodo_pago, estado, total FROM `+view)
	return rows, err
}

// MonthlyBreakdown groups non-cancelled orders in [from, to) by payment method.
func (r *ReportRepository) MonthlyBreakdown(ctx context.Context, from, to time.Time) ([]models.PaymentMethodTotal, error) {
	rows := []models.PaymentMethodTotal{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT metodo_pago, COALESCE(SUM(total), 0) AS total_monto, COUNT(*) AS cantidad_pedidos
		FROM pedidos
		WHERE fecha_pedido >= $1 AND fecha_pedido < $2 AND estado <> 'cancelado'
		GROUP BY metodo_pago
		ORDER BY total_monto DESC
	`, from, to)
	return rows, err
}

// MonthlyOrders lists non-cancelled orders in [from, to) with a product summary
// such as "2x Pastel, 1x Galletas".
func (r *ReportRepository) MonthlyOrders(ctx context.Context, from, to time.Time) ([]models.MonthlyOrder, error) {
	rows := []models.MonthlyOrder{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id_pedido, p.fecha_pedido, c.nombre_cliente, p.metodo_pago, p.estado, p.total,
			STRING_AGG(dp.cantidad || 'x ' || pr.nombre_producto, ', ' ORDER BY dp.id_detalle) AS productos_resumen
		FROM pedidos p
		JOIN clientes c ON c.id_cliente = p.id_cliente
		LEFT JOIN detalle_pedidos dp ON dp.id_pedido = p.id_pedido
		LEFT JOIN productos pr ON pr.id_producto = dp.id_producto
		WHERE p.fecha_pedido >= $1 AND p.fecha_pedido < $2 AND p.estado <> 'cancelado'
		GROUP BY p.id_pedido, c.nombre_cliente
		ORDER BY p.fecha_pedido DESC, p.id_pedido DESC
	`, from, to)
	return rows, err
}

// DashboardStats returns today's counters in a single round trip.
func (r *ReportRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COALESCE(SUM(total), 0) FROM pedidos
				WHERE fecha_pedido = CURRENT_DATE AND estado <> 'cancelado') AS ventas_hoy,
			(SELECT COUNT(*) FROM pedidos
				WHERE fecha_pedido = CURRENT_DATE AND estado <> 'cancelado') AS pedidos_hoy,
			(SELECT COUNT(*) FROM pedidos WHERE estado = 'pendiente') AS pedidos_pendientes,
			(SELECT COUNT(*) FROM productos WHERE activo = TRUE) AS total_productos
	`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
