package fiscal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBreakdownRedondeoRegulatorio(t *testing.T) {
	// Caso canónico: 2000 brutos → 1652.89 neto + 347.11 IVA.
	imp := Breakdown(decimal.NewFromInt(2000))

	assert.True(t, imp.Total.Equal(decimal.RequireFromString("2000.00")), "total: %s", imp.Total)
	assert.True(t, imp.Neto.Equal(decimal.RequireFromString("1652.89")), "neto: %s", imp.Neto)
	assert.True(t, imp.IVA.Equal(decimal.RequireFromString("347.11")), "iva: %s", imp.IVA)
}

func TestBreakdownSumaSiempreCierra(t *testing.T) {
	// Neto + IVA == Total para cualquier monto: el IVA absorbe el residuo de
	// redondeo en lugar de calcularse por separado.
	casos := []string{"0.01", "1", "10.99", "121", "333.33", "1999.99", "2000", "123456.78"}
	for _, c := range casos {
		imp := Breakdown(decimal.RequireFromString(c))
		assert.True(t, imp.Neto.Add(imp.IVA).Equal(imp.Total), "bruto %s: %s + %s != %s", c, imp.Neto, imp.IVA, imp.Total)
		assert.GreaterOrEqual(t, imp.Total.Exponent(), int32(-2), "total con mas de 2 decimales")
	}
}

func TestBreakdownMontoExactamenteDivisible(t *testing.T) {
	// 121 = 100 neto + 21 IVA, sin residuo.
	imp := Breakdown(decimal.NewFromInt(121))
	assert.True(t, imp.Neto.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, imp.IVA.Equal(decimal.RequireFromString("21.00")))
}
