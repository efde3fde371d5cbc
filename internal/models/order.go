package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Any string is accepted by
// the status patch; these are the values the dashboard knows about.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "borrador"
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusCompleted OrderStatus = "completado"
	OrderStatusCancelled OrderStatus = "cancelado"
)

// DefaultPaymentMethod is used when an order does not name one.
const DefaultPaymentMethod = "Efectivo"

// Order is the order header. Total is generated by the database as
// subtotal + shipping cost.
type Order struct {
	ID               int             `db:"id_pedido" json:"id_pedido"`
	OrderDate        time.Time       `db:"fecha_pedido" json:"fecha_pedido"`
	DueDate          *time.Time      `db:"fecha_limite" json:"fecha_limite"`
	ClientID         int             `db:"id_cliente" json:"id_cliente"`
	ChannelID        int             `db:"id_canal" json:"id_canal"`
	ShippingCost     decimal.Decimal `db:"costo_envio" json:"costo_envio"`
	RequiresShipping bool            `db:"requiere_envio" json:"requiere_envio"`
	ShippingAddress  *string         `db:"direccion_envio" json:"direccion_envio"`
	Notes            *string         `db:"notas" json:"notas"`
	PaymentMethod    string          `db:"metodo_pago" json:"metodo_pago"`
	Status           OrderStatus     `db:"estado" json:"estado"`
	Subtotal         decimal.Decimal `db:"subtotal" json:"subtotal"`
	Total            decimal.Decimal `db:"total" json:"total"`
	LastEditedAt     *time.Time      `db:"ultima_edicion" json:"ultima_edicion"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`

	// Joined columns
	ClientName    string  `db:"nombre_cliente" json:"nombre_cliente"`
	ChannelName   string  `db:"nombre_canal" json:"nombre_canal"`
	ClientPhone   *string `db:"telefono" json:"telefono,omitempty"`
	ClientAddress *string `db:"direccion" json:"direccion,omitempty"`

	Lines []OrderLine `db:"-" json:"detalles,omitempty"`
}

// OrderLine is one product/quantity row of an order with the unit price
// captured when the order was written.
type OrderLine struct {
	ID          int             `db:"id_detalle" json:"id_detalle"`
	OrderID     int             `db:"id_pedido" json:"id_pedido"`
	ProductID   int             `db:"id_producto" json:"id_producto"`
	Quantity    int             `db:"cantidad" json:"cantidad"`
	UnitPrice   decimal.Decimal `db:"precio_unitario" json:"precio_unitario"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	ProductName string          `db:"nombre_producto" json:"nombre_producto"`
}

// LineInput is a requested line item: product and quantity only.
type LineInput struct {
	ProductID int
	Quantity  int
}
