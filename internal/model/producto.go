package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a wine in the cellar. Carrito, CarritoCantidad and Favorito are
// cart-staging flags: they are set from the sales screen and reset at the end
// of every checkout cycle. Cantidad is mutated only by checkout (decrement)
// and reversals (increment).
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Bodega      string
	Cepa        string `gorm:"index"`
	Year        string
	Origen      string
	Descripcion string
	Posicion    string
	Foto        string
	// Costo y Venta en pesos. Venta es el precio unitario usado por el checkout.
	Costo    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Venta    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cantidad int             `gorm:"not null;default:0"`

	Carrito         bool `gorm:"not null;default:false;index"`
	CarritoCantidad int  `gorm:"not null;default:0"`
	Favorito        bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
