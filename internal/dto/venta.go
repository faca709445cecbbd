package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Pipillas/musa/internal/model"
)

// FinalizarCompraRequest closes the staged cart into a sale. With Factura A
// the buyer's CUIT is mandatory; Factura B accepts an optional DNI and falls
// back to consumidor final. Sin factura, la venta se registra solo con la
// forma de pago y no se emite comprobante.
type FinalizarCompraRequest struct {
	Factura   string           `json:"factura" validate:"omitempty,oneof=A B"`
	FormaPago string           `json:"formaPago" validate:"required,oneof=EFECTIVO DIGITAL"`
	Descuento *decimal.Decimal `json:"descuento,omitempty" validate:"omitempty,gte=0"`
	Detalle   string           `json:"detalle" validate:"max=500"`
	CUIT      *int64           `json:"cuit,omitempty" validate:"omitempty,gte=20000000000,lte=34999999999"`
	DNI       *int64           `json:"dni,omitempty" validate:"omitempty,gte=1000000,lte=99999999"`
	Nombre    *string          `json:"nombre,omitempty" validate:"omitempty,max=200"`
	Domicilio *string          `json:"domicilio,omitempty" validate:"omitempty,max=300"`
}

type VentaFilter struct {
	Fecha       string `form:"fecha"`
	Mes         string `form:"mes"`
	FormaPago   string `form:"formaPago" validate:"omitempty,oneof=EFECTIVO DIGITAL"`
	TipoFactura string `form:"tipoFactura" validate:"omitempty,oneof=A B"`
	// Tipo separa ventas de salón (vino) de cobros de turnos (reserva).
	Tipo  string `form:"tipo" validate:"omitempty,oneof=vino reserva"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (f *VentaFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type VentaResponse struct {
	Venta    *model.Venta `json:"venta"`
	QRURL    string       `json:"qrUrl,omitempty"`
	Importes Importes     `json:"importes"`
}

// Importes mirrors the fiscal breakdown on API responses.
type Importes struct {
	Total decimal.Decimal `json:"total"`
	Neto  decimal.Decimal `json:"neto"`
	IVA   decimal.Decimal `json:"iva"`
}

type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
