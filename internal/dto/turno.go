package dto

import "github.com/shopspring/decimal"

type CreateTurnoRequest struct {
	Fecha    string          `json:"fecha" validate:"required,len=10"`
	Turno    string          `json:"turno" validate:"required,max=50"`
	Nombre   string          `json:"nombre" validate:"required,max=200"`
	Cantidad int             `json:"cantidad" validate:"required,gte=1"`
	Total    decimal.Decimal `json:"total" validate:"required,gt=0"`
}

type UpdateTurnoRequest struct {
	Turno    *string          `json:"turno,omitempty" validate:"omitempty,max=50"`
	Nombre   *string          `json:"nombre,omitempty" validate:"omitempty,max=200"`
	Cantidad *int             `json:"cantidad,omitempty" validate:"omitempty,gte=1"`
	Total    *decimal.Decimal `json:"total,omitempty" validate:"omitempty,gt=0"`
}

// CobrarTurnoRequest collects payment for a turno. When Facturar is set a
// Factura B is authorized for the collected amount and linked to the turno.
type CobrarTurnoRequest struct {
	Monto        decimal.Decimal `json:"monto" validate:"required,gt=0"`
	FormaDeCobro string          `json:"formaDeCobro" validate:"required,oneof=EFECTIVO DIGITAL"`
	Facturar     bool            `json:"facturar"`
	DNI          *int64          `json:"dni,omitempty" validate:"omitempty,gte=1000000,lte=99999999"`
	Nombre       *string         `json:"nombre,omitempty" validate:"omitempty,max=200"`
}
