package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyProfit is a row of vw_resumen_ganancias.
type MonthlyProfit struct {
	Month         string          `db:"mes" json:"mes"`
	OrderCount    int             `db:"total_pedidos" json:"total_pedidos"`
	ProductSales  decimal.Decimal `db:"ventas_productos" json:"ventas_productos"`
	ShippingTotal decimal.Decimal `db:"total_envios" json:"total_envios"`
	Revenue       decimal.Decimal `db:"ingresos_totales" json:"ingresos_totales"`
}

// TopProduct is a row of vw_productos_mas_vendidos.
type TopProduct struct {
	ProductID   int             `db:"id_producto" json:"id_producto"`
	ProductName string          `db:"nombre_producto" json:"nombre_producto"`
	UnitsSold   int             `db:"total_vendido" json:"total_vendido"`
	Revenue     decimal.Decimal `db:"ingresos" json:"ingresos"`
}

// RecentSale is a row of the vw_ventas_N_dias views.
type RecentSale struct {
	OrderID       int             `db:"id_pedido" json:"id_pedido"`
	OrderDate     time.Time       `db:"fecha_pedido" json:"fecha_pedido"`
	ClientName    string          `db:"nombre_cliente" json:"nombre_cliente"`
	PaymentMethod string          `db:"metodo_pago" json:"metodo_pago"`
	Status        string          `db:"estado" json:"estado"`
	Total         decimal.Decimal `db:"total" json:"total"`
}

// PaymentMethodTotal is one bucket of the monthly breakdown.
type PaymentMethodTotal struct {
	PaymentMethod string          `db:"metodo_pago" json:"metodo_pago"`
	Amount        decimal.Decimal `db:"total_monto" json:"total_monto"`
	OrderCount    int             `db:"cantidad_pedidos" json:"cantidad_pedidos"`
}

// MonthlyOrder is an order line of the monthly report with a one-line
// summary of its products.
type MonthlyOrder struct {
	OrderID         int             `db:"id_pedido" json:"id_pedido"`
	OrderDate       time.Time       `db:"fecha_pedido" json:"fecha_pedido"`
	ClientName      string          `db:"nombre_cliente" json:"nombre_cliente"`
	PaymentMethod   string          `db:"metodo_pago" json:"metodo_pago"`
	Status          string          `db:"estado" json:"estado"`
	Total           decimal.Decimal `db:"total" json:"total"`
	ProductsSummary *string         `db:"productos_resumen" json:"productos_resumen"`
}

// DashboardStats feeds the dashboard counters.
type DashboardStats struct {
	SalesToday    decimal.Decimal `db:"ventas_hoy" json:"ventasHoy"`
	OrdersToday   int             `db:"pedidos_hoy" json:"pedidosHoy"`
	PendingOrders int             `db:"pedidos_pendientes" json:"pedidosPendientes"`
	TotalProducts int             `db:"total_productos" json:"totalProductos"`
}
