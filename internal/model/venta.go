package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is the immutable sale ledger entry created exactly once per finalized
// checkout. The only permitted mutation is setting NotaCredito to true when a
// credit note (or a non-fiscal devolución) reverses it. Ventas are never deleted.
//
// TipoFactura: "A" | "B" | "" (forma-de-pago only, no fiscal document).
type Venta struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoFactura string    `gorm:"type:varchar(1);not null;default:''"`
	// NumeroFactura is the AFIP-assigned sequential number; 0 when no invoice.
	NumeroFactura       int64
	StringNumeroFactura string
	PuntoDeVenta        int
	// CAE is the authorization code returned by AFIP for the invoice.
	CAE            *string `gorm:"type:varchar(20);column:cae"`
	CAEVencimiento *string `gorm:"type:varchar(10);column:cae_vencimiento"`

	// Receptor: CUIT for factura A, DNI (or 0 = consumidor final) for factura B.
	DocumentoReceptor int64
	RazonSocial       string
	Domicilio         string
	Localidad         string
	Provincia         string
	Nombre            string

	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FormaPago string          `gorm:"type:varchar(20);not null"`
	Detalle   string
	// Fecha local YYYY-MM-DD, igual que la fecha fiscal del comprobante.
	Fecha string `gorm:"type:varchar(10);index;not null"`

	NotaCredito bool `gorm:"not null;default:false"`

	// TurnoID links a sale produced by cobrar un turno (reserva); those sales
	// carry no physical items and reversals must not touch stock.
	TurnoID *uuid.UUID `gorm:"type:uuid;index"`

	Productos []VentaItem `gorm:"foreignKey:VentaID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VentaItem is the line-item snapshot frozen at sale time. Precio and Cantidad
// are copied from the product so later price/stock changes never alter the ledger.
type VentaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Codigo     string          `gorm:"not null"`
	Nombre     string          `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad   int             `gorm:"not null"`
}

// TableName overrides GORM's pluralization (venta_items → venta_items is fine,
// ventas keeps the Spanish plural).
func (Venta) TableName() string { return "ventas" }
