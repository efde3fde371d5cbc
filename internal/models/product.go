package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog.
type Category struct {
	ID          int     `db:"id_categoria" json:"id_categoria"`
	Name        string  `db:"nombre_categoria" json:"nombre_categoria"`
	Description *string `db:"descripcion" json:"descripcion"`
	IsActive    bool    `db:"activo" json:"activo"`
}

// Product is a sellable item. Price is the current list price; orders
// capture their own copy at sale time.
type Product struct {
	ID           int             `db:"id_producto" json:"id_producto"`
	Name         string          `db:"nombre_producto" json:"nombre_producto"`
	Description  *string         `db:"descripcion" json:"descripcion"`
	Price        decimal.Decimal `db:"precio" json:"precio"`
	Size         *string         `db:"tamano" json:"tamano"`
	ImageURL     *string         `db:"imagen_url" json:"imagen_url"`
	CategoryID   int             `db:"id_categoria" json:"id_categoria"`
	IsActive     bool            `db:"activo" json:"activo"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	CategoryName *string         `db:"nombre_categoria" json:"nombre_categoria,omitempty"`
}
