package models

import "time"

// Client is a store customer. Inactive clients stay referenced by their orders.
type Client struct {
	ID        int       `db:"id_cliente" json:"id_cliente"`
	Name      string    `db:"nombre_cliente" json:"nombre_cliente"`
	Phone     *string   `db:"telefono" json:"telefono"`
	Address   *string   `db:"direccion" json:"direccion"`
	Notes     *string   `db:"notas" json:"notas"`
	IsActive  bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SalesChannel is the medium an order came through (in person, WhatsApp, ...).
type SalesChannel struct {
	ID       int    `db:"id_canal" json:"id_canal"`
	Name     string `db:"nombre_canal" json:"nombre_canal"`
	IsActive bool   `db:"activo" json:"activo"`
}
