package fiscal

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// qrBaseURL is the AFIP comprobante verification page; the payload travels
// base64-encoded in the p query parameter and the ticket renders it as QR.
const qrBaseURL = "https://serviciosweb.afip.gob.ar/genericos/comprobantes/cae.aspx?p="

// QRPayload is the regulator-fixed JSON embedded in the fiscal QR.
// Field names and constant values are mandated and must not change.
type QRPayload struct {
	Ver        int     `json:"ver"`
	Fecha      string  `json:"fecha"`
	Cuit       int64   `json:"cuit"`
	PtoVta     int     `json:"ptoVta"`
	TipoCmp    int     `json:"tipoCmp"`
	NroCmp     int64   `json:"nroCmp"`
	Importe    float64 `json:"importe"`
	Moneda     string  `json:"moneda"`
	Ctz        int     `json:"ctz"`
	TipoDocRec int     `json:"tipoDocRec"`
	NroDocRec  int64   `json:"nroDocRec"`
	TipoCodAut string  `json:"tipoCodAut"`
	CodAut     int64   `json:"codAut"`
}

// NewQRPayload fills the payload with the fixed regulator constants
// (ver=1, moneda=PES, ctz=1, tipoCodAut=E).
func NewQRPayload(fecha string, cuitEmisor int64, ptoVta, tipoCmp int, nroCmp int64, importe decimal.Decimal, tipoDocRec int, nroDocRec int64, cae string) QRPayload {
	codAut, _ := strconv.ParseInt(cae, 10, 64)
	return QRPayload{
		Ver:        1,
		Fecha:      fecha,
		Cuit:       cuitEmisor,
		PtoVta:     ptoVta,
		TipoCmp:    tipoCmp,
		NroCmp:     nroCmp,
		Importe:    importe.Round(2).InexactFloat64(),
		Moneda:     "PES",
		Ctz:        1,
		TipoDocRec: tipoDocRec,
		NroDocRec:  nroDocRec,
		TipoCodAut: "E",
		CodAut:     codAut,
	}
}

// URL returns the scannable verification URL for the payload.
func (p QRPayload) URL() string {
	raw, _ := json.Marshal(p)
	return qrBaseURL + base64.StdEncoding.EncodeToString(raw)
}
