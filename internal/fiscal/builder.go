package fiscal

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Pipillas/musa/internal/afip"
)

// ErrCUITRequerido: un comprobante clase A exige CUIT del receptor.
var ErrCUITRequerido = errors.New("fiscal: comprobante clase A sin CUIT del receptor")

// Kind identifica la clase de comprobante a emitir.
type Kind int

const (
	FacturaA Kind = iota
	FacturaB
	NotaCreditoA
	NotaCreditoB
)

// CbteTipo maps the kind to its AFIP comprobante type code.
func (k Kind) CbteTipo() int {
	switch k {
	case FacturaA:
		return afip.CbteFacturaA
	case NotaCreditoA:
		return afip.CbteNotaCreditoA
	case NotaCreditoB:
		return afip.CbteNotaCreditoB
	default:
		return afip.CbteFacturaB
	}
}

// Letra is the printed document class: "A" or "B".
func (k Kind) Letra() string {
	if k == FacturaA || k == NotaCreditoA {
		return "A"
	}
	return "B"
}

// EsNotaCredito reports whether the kind reverses a prior invoice.
func (k Kind) EsNotaCredito() bool { return k == NotaCreditoA || k == NotaCreditoB }

// NotaCreditoDe returns the credit-note kind matching an invoice letter.
func NotaCreditoDe(letra string) Kind {
	if letra == "A" {
		return NotaCreditoA
	}
	return NotaCreditoB
}

// FacturaDe returns the invoice kind for a letter.
func FacturaDe(letra string) Kind {
	if letra == "A" {
		return FacturaA
	}
	return FacturaB
}

// BuildComprobante assembles one fiscally valid detail line ready for
// FECAESolicitar:
//   - número secuencial = ultimoAutorizado + 1
//   - fecha local del día, sin componente horario
//   - desglose monetario de Breakdown bajo la única alícuota 21%
//   - clase B: DNI presente → DocTipo 96; ausente → consumidor final (99, nro 0)
//   - clase A: CUIT obligatorio (ErrCUITRequerido si falta)
//   - notas de crédito: referencia al comprobante original vía asociado
//
// Concepto es siempre "productos"; no hay rango de fechas de servicio.
func BuildComprobante(kind Kind, docNro int64, ultimoAutorizado int64, bruto decimal.Decimal, asociado *afip.CbteAsociado) (*afip.FECAERequest, error) {
	docTipo := afip.DocTipoCUIT
	switch kind {
	case FacturaA, NotaCreditoA:
		if docNro == 0 {
			return nil, ErrCUITRequerido
		}
	case FacturaB, NotaCreditoB:
		if docNro != 0 {
			docTipo = afip.DocTipoDNI
		} else {
			docTipo = afip.DocTipoConsumidorFinal
		}
	}

	if kind.EsNotaCredito() != (asociado != nil) {
		return nil, fmt.Errorf("fiscal: referencia asociada incompatible con el tipo de comprobante")
	}

	imp := Breakdown(bruto)
	nro := ultimoAutorizado + 1

	return &afip.FECAERequest{
		CbteTipo:  kind.CbteTipo(),
		Concepto:  afip.ConceptoProductos,
		DocTipo:   docTipo,
		DocNro:    docNro,
		CbteDesde: nro,
		CbteHasta: nro,
		CbteFch:   time.Now().Format("20060102"),
		ImpTotal:  imp.Total,
		ImpNeto:   imp.Neto,
		ImpIVA:    imp.IVA,
		CbteAsoc:  asociado,
	}, nil
}

// FormatNumero renders the printed comprobante number, e.g. "FA-00021-00000042".
func FormatNumero(letra string, ptoVta int, nro int64) string {
	return fmt.Sprintf("F%s-%05d-%08d", letra, ptoVta, nro)
}
