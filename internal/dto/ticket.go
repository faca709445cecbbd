package dto

import "github.com/shopspring/decimal"

// Ticket carries everything a receipt renderer needs for one authorized sale.
type Ticket struct {
	NumeroFactura string
	TipoFactura   string
	Fecha         string
	CAE           string
	CAEVto        string
	QRURL         string
	RazonSocial   string
	Items         []TicketItem
	Neto          decimal.Decimal
	IVA           decimal.Decimal
	Total         decimal.Decimal
	Descuento     decimal.Decimal
	FormaPago     string
}

type TicketItem struct {
	Codigo   string
	Nombre   string
	Cantidad int
	Precio   decimal.Decimal
}
