package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Turno is a scheduled-service booking (degustaciones por franja horaria).
// Cobrado only grows through Cobrar — except when a credit note on a linked
// Venta rolls the collected amount back.
type Turno struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha        string          `gorm:"type:varchar(10);index;not null"`
	Turno        string          `gorm:"type:varchar(20);not null"` // franja horaria
	Nombre       string          `gorm:"index;not null"`
	Cantidad     int             `gorm:"not null;default:1"` // comensales
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cobrado      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Facturado    bool            `gorm:"not null;default:false"`
	FormaDeCobro string          `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
