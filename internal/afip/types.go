package afip

import "github.com/shopspring/decimal"

// Constantes de tablas AFIP usadas por WSFEV1.
const (
	CbteFacturaA     = 1
	CbteNotaCreditoA = 3
	CbteFacturaB     = 6
	CbteNotaCreditoB = 8

	DocTipoCUIT            = 80
	DocTipoDNI             = 96
	DocTipoConsumidorFinal = 99

	ConceptoProductos = 1

	// AlicIVA21 es el id de alícuota 21% en FEParamGetTiposIva.
	AlicIVA21 = 5

	MonedaPesos     = "PES"
	CotizacionPesos = 1

	ServicioWSFE   = "wsfe"
	ServicioPadron = "ws_sr_constancia_inscripcion"
)

// FECAERequest is one comprobante detail ready for FECAESolicitar.
// Exactly one detail line (CantReg=1), single 21% VAT bracket.
type FECAERequest struct {
	PtoVta   int
	CbteTipo int

	Concepto int
	DocTipo  int
	DocNro   int64
	// CbteDesde == CbteHasta == último autorizado + 1.
	CbteDesde int64
	CbteHasta int64
	// CbteFch local date, formato AFIP "20060102" (sin componente horario).
	CbteFch string

	ImpTotal decimal.Decimal
	ImpNeto  decimal.Decimal
	ImpIVA   decimal.Decimal

	// CbteAsoc references the original invoice — credit notes only.
	CbteAsoc *CbteAsociado
}

// CbteAsociado identifies the invoice a nota de crédito reverses.
type CbteAsociado struct {
	Tipo   int
	PtoVta int
	Nro    int64
}

// CAEResult is a successful authorization: code, its expiration (YYYYMMDD as
// returned by AFIP) and the number that was claimed.
type CAEResult struct {
	CAE         string
	Vencimiento string
	Numero      int64
}

// Contribuyente is the padrón registration record for a CUIT.
type Contribuyente struct {
	RazonSocial string
	Direccion   string
	Localidad   string
	Provincia   string
}
