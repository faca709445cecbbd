package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OperacionAporte  = "aporte"
	OperacionRetiro  = "retiro"
	OperacionGasto   = "gasto"
	OperacionIngreso = "ingreso"
	OperacionCierre  = "cierre"
)

// Operacion is a cash-drawer ledger movement independent of sales: aportes,
// retiros, gastos, ingresos y cierres. Used only for drawer totals.
// TipoOperacion: "aporte" | "retiro" | "gasto" | "ingreso" | "cierre"
type Operacion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FormaPago     string          `gorm:"type:varchar(20);not null"` // EFECTIVO | DIGITAL
	TipoOperacion string          `gorm:"type:varchar(20);index;not null"`
	Nombre        string          `gorm:"index"`
	Descripcion   string
	// FilePath: comprobante adjunto (ruta relativa en disco), opcional.
	FilePath *string
	Fecha    string `gorm:"type:varchar(10);index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the Spanish plural.
func (Operacion) TableName() string { return "operaciones" }
