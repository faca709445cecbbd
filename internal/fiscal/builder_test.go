package fiscal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pipillas/musa/internal/afip"
)

func TestBuildComprobanteNumeracion(t *testing.T) {
	comp, err := BuildComprobante(FacturaB, 0, 41, decimal.NewFromInt(2000), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(42), comp.CbteDesde)
	assert.Equal(t, int64(42), comp.CbteHasta)
	assert.Equal(t, afip.CbteFacturaB, comp.CbteTipo)
	assert.Equal(t, time.Now().Format("20060102"), comp.CbteFch)
}

func TestBuildComprobanteClaseBClasificacionReceptor(t *testing.T) {
	// Sin documento → consumidor final.
	comp, err := BuildComprobante(FacturaB, 0, 0, decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	assert.Equal(t, afip.DocTipoConsumidorFinal, comp.DocTipo)
	assert.Equal(t, int64(0), comp.DocNro)

	// Con DNI → DocTipo 96.
	comp, err = BuildComprobante(FacturaB, 30123456, 0, decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	assert.Equal(t, afip.DocTipoDNI, comp.DocTipo)
	assert.Equal(t, int64(30123456), comp.DocNro)
}

func TestBuildComprobanteClaseAExigeCUIT(t *testing.T) {
	_, err := BuildComprobante(FacturaA, 0, 10, decimal.NewFromInt(100), nil)
	assert.ErrorIs(t, err, ErrCUITRequerido)

	comp, err := BuildComprobante(FacturaA, 20111111112, 10, decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	assert.Equal(t, afip.DocTipoCUIT, comp.DocTipo)
}

func TestBuildComprobanteAsociadoSoloEnNotaCredito(t *testing.T) {
	asoc := &afip.CbteAsociado{Tipo: afip.CbteFacturaB, PtoVta: 21, Nro: 42}

	// Factura con asociado: inválido.
	_, err := BuildComprobante(FacturaB, 0, 0, decimal.NewFromInt(100), asoc)
	assert.Error(t, err)

	// Nota de crédito sin asociado: inválido.
	_, err = BuildComprobante(NotaCreditoB, 0, 0, decimal.NewFromInt(100), nil)
	assert.Error(t, err)

	// Nota de crédito con asociado: ok.
	comp, err := BuildComprobante(NotaCreditoB, 0, 7, decimal.NewFromInt(100), asoc)
	require.NoError(t, err)
	assert.Equal(t, afip.CbteNotaCreditoB, comp.CbteTipo)
	assert.Equal(t, asoc, comp.CbteAsoc)
}

func TestBuildComprobanteDesglose(t *testing.T) {
	comp, err := BuildComprobante(FacturaB, 0, 0, decimal.NewFromInt(2000), nil)
	require.NoError(t, err)

	assert.True(t, comp.ImpTotal.Equal(decimal.RequireFromString("2000.00")))
	assert.True(t, comp.ImpNeto.Equal(decimal.RequireFromString("1652.89")))
	assert.True(t, comp.ImpIVA.Equal(decimal.RequireFromString("347.11")))
}

func TestKindHelpers(t *testing.T) {
	assert.Equal(t, "A", FacturaA.Letra())
	assert.Equal(t, "A", NotaCreditoA.Letra())
	assert.Equal(t, "B", FacturaB.Letra())
	assert.True(t, NotaCreditoA.EsNotaCredito())
	assert.False(t, FacturaB.EsNotaCredito())
	assert.Equal(t, NotaCreditoA, NotaCreditoDe("A"))
	assert.Equal(t, NotaCreditoB, NotaCreditoDe("B"))
	assert.Equal(t, FacturaA, FacturaDe("A"))
}

func TestFormatNumero(t *testing.T) {
	assert.Equal(t, "FB-00021-00000042", FormatNumero("B", 21, 42))
	assert.Equal(t, "FA-00001-00001234", FormatNumero("A", 1, 1234))
}
