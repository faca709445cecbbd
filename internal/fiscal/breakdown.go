// Package fiscal contiene la aritmética monetaria y el armado de comprobantes
// bajo el régimen de IVA 21% de un responsable inscripto.
package fiscal

import "github.com/shopspring/decimal"

// IVARate is the single fixed VAT bracket applied to every sale.
var IVARate = decimal.NewFromFloat(0.21)

var one = decimal.NewFromInt(1)

// Importes is the legally binding monetary breakdown of one comprobante.
// Invariant: Neto + IVA == Total al centavo.
type Importes struct {
	Total decimal.Decimal
	Neto  decimal.Decimal
	IVA   decimal.Decimal
}

// Breakdown converts a gross amount into its net/tax components:
// Total = round(bruto, 2); Neto = round(Total / 1.21, 2); IVA = Total − Neto.
// Pure and deterministic — the comprobante request and the printed ticket both
// call it and must agree bit a bit.
func Breakdown(bruto decimal.Decimal) Importes {
	total := bruto.Round(2)
	neto := total.Div(one.Add(IVARate)).Round(2)
	return Importes{
		Total: total,
		Neto:  neto,
		IVA:   total.Sub(neto),
	}
}
