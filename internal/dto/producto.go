package dto

import "github.com/shopspring/decimal"

type CreateProductoRequest struct {
	Codigo      string          `json:"codigo" validate:"required,min=1,max=50"`
	Nombre      string          `json:"nombre" validate:"required,min=1,max=200"`
	Bodega      string          `json:"bodega" validate:"max=100"`
	Cepa        string          `json:"cepa" validate:"max=100"`
	Year        string          `json:"year" validate:"max=10"`
	Origen      string          `json:"origen" validate:"max=100"`
	Descripcion string          `json:"descripcion" validate:"max=2000"`
	Posicion    string          `json:"posicion" validate:"max=50"`
	Foto        string          `json:"foto" validate:"max=500"`
	Costo       decimal.Decimal `json:"costo" validate:"gte=0"`
	Venta       decimal.Decimal `json:"venta" validate:"gte=0"`
	Cantidad    int             `json:"cantidad" validate:"gte=0"`
}

type UpdateProductoRequest struct {
	Nombre      *string          `json:"nombre,omitempty" validate:"omitempty,min=1,max=200"`
	Bodega      *string          `json:"bodega,omitempty" validate:"omitempty,max=100"`
	Cepa        *string          `json:"cepa,omitempty" validate:"omitempty,max=100"`
	Year        *string          `json:"year,omitempty" validate:"omitempty,max=10"`
	Origen      *string          `json:"origen,omitempty" validate:"omitempty,max=100"`
	Descripcion *string          `json:"descripcion,omitempty" validate:"omitempty,max=2000"`
	Posicion    *string          `json:"posicion,omitempty" validate:"omitempty,max=50"`
	Foto        *string          `json:"foto,omitempty" validate:"omitempty,max=500"`
	Costo       *decimal.Decimal `json:"costo,omitempty" validate:"omitempty,gte=0"`
	Venta       *decimal.Decimal `json:"venta,omitempty" validate:"omitempty,gte=0"`
	Cantidad    *int             `json:"cantidad,omitempty" validate:"omitempty,gte=0"`
}

type ProductoFilter struct {
	Search        string `form:"search"`
	Carrito       bool   `form:"carrito"`
	Favorito      bool   `form:"favorito"`
	OrdenCepa     bool   `form:"orden_cepa"`
	OrdenCantidad bool   `form:"orden_cantidad"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// Normalize clamps pagination to sane defaults.
func (f *ProductoFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type CarritoItemRequest struct {
	Cantidad int `json:"cantidad" validate:"required,gte=1"`
}

type AjusteStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}
