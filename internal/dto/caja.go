package dto

import "github.com/shopspring/decimal"

type CreateOperacionRequest struct {
	Monto         decimal.Decimal `json:"monto" validate:"required,gt=0"`
	FormaPago     string          `json:"formaPago" validate:"required,oneof=EFECTIVO DIGITAL"`
	TipoOperacion string          `json:"tipoOperacion" validate:"required,oneof=aporte retiro gasto ingreso cierre"`
	Nombre        string          `json:"nombre" validate:"required,max=200"`
	Descripcion   string          `json:"descripcion" validate:"max=1000"`
	Fecha         string          `json:"fecha" validate:"required,len=10"`
	// FilePath: ruta del comprobante adjunto ya subido, opcional.
	FilePath *string `json:"filePath" validate:"omitempty,max=500"`
}

type UpdateOperacionRequest struct {
	Monto       *decimal.Decimal `json:"monto" validate:"omitempty,gt=0"`
	FormaPago   *string          `json:"formaPago" validate:"omitempty,oneof=EFECTIVO DIGITAL"`
	Nombre      *string          `json:"nombre" validate:"omitempty,max=200"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=1000"`
	FilePath    *string          `json:"filePath" validate:"omitempty,max=500"`
}

// ResumenCaja is the end-of-day cash position for one date.
type ResumenCaja struct {
	Fecha         string                     `json:"fecha"`
	VentasPorPago map[string]decimal.Decimal `json:"ventasPorPago"`
	Aportes       decimal.Decimal            `json:"aportes"`
	Retiros       decimal.Decimal            `json:"retiros"`
	Gastos        decimal.Decimal            `json:"gastos"`
	Ingresos      decimal.Decimal            `json:"ingresos"`
	SaldoEfectivo decimal.Decimal            `json:"saldoEfectivo"`
}
