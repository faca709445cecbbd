package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pipillas/musa/internal/afip"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/fiscal"
	"github.com/Pipillas/musa/internal/model"
)

const pdv = 21

func nuevoCheckout(productos *stubProductoRepo, ventas *stubVentaRepo, inv *fakeInvoicer) (*CheckoutService, *fakeNotifier, *fakePrinter) {
	notifier := &fakeNotifier{}
	printer := &fakePrinter{}
	svc := NewCheckoutService(productos, ventas, inv, NewCheckoutGuard(), notifier, printer, pdv)
	return svc, notifier, printer
}

func productoEnCarrito(codigo string, precio string, stock, enCarrito int) *model.Producto {
	return &model.Producto{
		Codigo:          codigo,
		Nombre:          "Malbec " + codigo,
		Venta:           decimal.RequireFromString(precio),
		Cantidad:        stock,
		Carrito:         true,
		CarritoCantidad: enCarrito,
	}
}

func TestFinalizarCompraCarritoVacio(t *testing.T) {
	inv := newFakeInvoicer()
	svc, _, _ := nuevoCheckout(newStubProductoRepo(), newStubVentaRepo(), inv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "EFECTIVO"})

	assert.ErrorIs(t, err, ErrCarritoVacio)
	assert.Zero(t, inv.llamadasRemotas(), "un carrito vacio no debe tocar AFIP")
}

func TestFinalizarCompraClaseASinCUIT(t *testing.T) {
	inv := newFakeInvoicer()
	productos := newStubProductoRepo(productoEnCarrito("P1", "1000", 10, 2))
	svc, _, _ := nuevoCheckout(productos, newStubVentaRepo(), inv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "A", FormaPago: "EFECTIVO"})

	assert.ErrorIs(t, err, fiscal.ErrCUITRequerido)
	assert.Zero(t, inv.llamadasRemotas(), "falta de CUIT se detecta sin llamadas remotas")
}

func TestFinalizarCompraCompradorNoInscripto(t *testing.T) {
	inv := newFakeInvoicer() // padrón vacío: todo CUIT es desconocido
	productos := newStubProductoRepo(productoEnCarrito("P1", "1000", 10, 2))
	svc, _, _ := nuevoCheckout(productos, newStubVentaRepo(), inv)

	cuit := int64(30555555558)
	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{
		Factura: "A", FormaPago: "EFECTIVO", CUIT: &cuit,
	})

	assert.ErrorIs(t, err, ErrContribuyenteDesconocido)
	assert.Equal(t, 1, inv.llamadasPadron)
	assert.Zero(t, inv.llamadasUltimo, "el padrón se consulta antes de tocar la numeración")
	assert.Zero(t, inv.llamadasSolicitar)
}

func TestFinalizarCompraRechazoFiscalNoMutaNada(t *testing.T) {
	inv := newFakeInvoicer()
	inv.solicitarErr = &afip.FiscalRejection{Codigo: 10048, Mensaje: "rechazado"}

	p := productoEnCarrito("P1", "1000", 10, 2)
	productos := newStubProductoRepo(p)
	ventas := newStubVentaRepo()
	svc, notifier, _ := nuevoCheckout(productos, ventas, inv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "EFECTIVO"})

	var rejection *afip.FiscalRejection
	require.ErrorAs(t, err, &rejection)

	assert.Equal(t, 10, p.Cantidad, "el stock no se toca ante un rechazo")
	assert.True(t, p.Carrito, "el carrito queda intacto para corregir y reintentar")
	assert.Equal(t, 2, p.CarritoCantidad)
	assert.Zero(t, ventas.count(), "no se registra venta sin CAE")
	assert.Zero(t, notifier.cambios)
}

func TestFinalizarCompraTransporteCaidoNoMutaNada(t *testing.T) {
	inv := newFakeInvoicer()
	inv.ultimoErr = &afip.TransportError{Operacion: "FECompUltimoAutorizado"}

	p := productoEnCarrito("P1", "1000", 10, 2)
	productos := newStubProductoRepo(p)
	ventas := newStubVentaRepo()
	svc, _, _ := nuevoCheckout(productos, ventas, inv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "EFECTIVO"})

	var transport *afip.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, 10, p.Cantidad)
	assert.True(t, p.Carrito)
	assert.Zero(t, ventas.count())
	assert.Zero(t, inv.llamadasSolicitar, "sin último autorizado no se pide CAE")
}

func TestFinalizarCompraExitosa(t *testing.T) {
	inv := newFakeInvoicer()
	inv.ultimos[[2]int{pdv, afip.CbteFacturaB}] = 41

	p1 := productoEnCarrito("P1", "500", 10, 2)
	p2 := productoEnCarrito("P2", "1000", 5, 1)
	fuera := &model.Producto{Codigo: "P3", Nombre: "Sin carrito", Venta: decimal.NewFromInt(100), Cantidad: 3}
	productos := newStubProductoRepo(p1, p2, fuera)
	ventas := newStubVentaRepo()
	svc, notifier, printer := nuevoCheckout(productos, ventas, inv)

	resp, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "DIGITAL"})
	require.NoError(t, err)

	// Numeración: último autorizado + 1, formato de impresión incluido.
	assert.Equal(t, int64(42), resp.Venta.NumeroFactura)
	assert.Equal(t, "FB-00021-00000042", resp.Venta.StringNumeroFactura)
	require.NotNil(t, resp.Venta.CAE)
	assert.Equal(t, "75123456789012", *resp.Venta.CAE)

	// Desglose: bruto 2000 → 1652.89 + 347.11.
	assert.True(t, resp.Importes.Neto.Equal(decimal.RequireFromString("1652.89")))
	assert.True(t, resp.Importes.IVA.Equal(decimal.RequireFromString("347.11")))
	assert.True(t, resp.Venta.Monto.Equal(decimal.RequireFromString("2000.00")))

	// Stock descontado solo para lo vendido.
	assert.Equal(t, 8, p1.Cantidad)
	assert.Equal(t, 4, p2.Cantidad)
	assert.Equal(t, 3, fuera.Cantidad)

	// Carrito limpio y pantallas notificadas.
	assert.False(t, p1.Carrito)
	assert.False(t, p2.Carrito)
	assert.Equal(t, 1, notifier.cambios)

	// Ledger con snapshot de ítems.
	assert.Equal(t, 1, ventas.count())
	assert.Len(t, resp.Venta.Productos, 2)

	// Ticket emitido con el QR fiscal.
	require.Len(t, printer.tickets, 1)
	assert.Contains(t, printer.tickets[0].QRURL, "cae.aspx?p=")

	// La respuesta trae el QR verificable.
	assert.Contains(t, resp.QRURL, "https://serviciosweb.afip.gob.ar")
}

func TestFinalizarCompraSinFactura(t *testing.T) {
	inv := newFakeInvoicer()
	p := productoEnCarrito("P1", "1000", 10, 2)
	productos := newStubProductoRepo(p)
	ventas := newStubVentaRepo()
	svc, notifier, printer := nuevoCheckout(productos, ventas, inv)

	resp, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{FormaPago: "EFECTIVO"})
	require.NoError(t, err)

	// Sin comprobante: AFIP no se toca y el libro registra la venta sin CAE.
	assert.Zero(t, inv.llamadasRemotas(), "una venta sin factura no debe llamar a AFIP")
	assert.Nil(t, resp.Venta.CAE)
	assert.Empty(t, resp.Venta.TipoFactura)
	assert.Zero(t, resp.Venta.NumeroFactura)
	assert.Empty(t, resp.QRURL)

	// Los efectos locales son los mismos que en una venta facturada.
	assert.Equal(t, 8, p.Cantidad)
	assert.False(t, p.Carrito)
	assert.Equal(t, 1, ventas.count())
	assert.Equal(t, 1, notifier.cambios)
	require.Len(t, printer.tickets, 1)
	assert.Empty(t, printer.tickets[0].CAE)

	// Y la venta queda alcanzable por devolución (sin nota de crédito).
	reversal, _ := nuevoReversal(productos, ventas, newStubTurnoRepo(), inv)
	require.NoError(t, reversal.Devolucion(context.Background(), resp.Venta.ID))
	assert.Equal(t, 10, p.Cantidad, "la devolución repone el stock")
}

func TestFinalizarCompraStockInsuficiente(t *testing.T) {
	inv := newFakeInvoicer()
	p := productoEnCarrito("P1", "1000", 2, 5)
	productos := newStubProductoRepo(p)
	ventas := newStubVentaRepo()
	svc, notifier, _ := nuevoCheckout(productos, ventas, inv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "EFECTIVO"})

	require.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Contains(t, err.Error(), "P1")
	assert.Zero(t, inv.llamadasRemotas(), "la insuficiencia se detecta antes de cualquier llamada fiscal")
	assert.Equal(t, 2, p.Cantidad, "el stock no se toca")
	assert.True(t, p.Carrito, "el carrito queda para que el operador lo corrija")
	assert.Zero(t, ventas.count())
	assert.Zero(t, notifier.cambios)
}

func TestFinalizarCompraDescuentoMayorAlSubtotal(t *testing.T) {
	inv := newFakeInvoicer()
	p := productoEnCarrito("P1", "1000", 10, 1)
	productos := newStubProductoRepo(p)
	svc, _, _ := nuevoCheckout(productos, newStubVentaRepo(), inv)

	desc := decimal.NewFromInt(1500)
	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{
		Factura: "B", FormaPago: "EFECTIVO", Descuento: &desc,
	})

	require.ErrorIs(t, err, ErrDescuentoInvalido)
	assert.Zero(t, inv.llamadasRemotas())
	assert.Equal(t, 10, p.Cantidad)
}

func TestFinalizarCompraConDescuento(t *testing.T) {
	inv := newFakeInvoicer()
	productos := newStubProductoRepo(productoEnCarrito("P1", "1000", 10, 2))
	svc, _, _ := nuevoCheckout(productos, newStubVentaRepo(), inv)

	desc := decimal.NewFromInt(200)
	resp, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{
		Factura: "B", FormaPago: "EFECTIVO", Descuento: &desc,
	})
	require.NoError(t, err)

	assert.True(t, resp.Venta.Monto.Equal(decimal.RequireFromString("1800.00")))
	assert.True(t, resp.Venta.Descuento.Equal(desc))
}

func TestFinalizarCompraClaseACompletaDatosDelPadron(t *testing.T) {
	inv := newFakeInvoicer()
	cuit := int64(30555555558)
	inv.padron[cuit] = &afip.Contribuyente{
		RazonSocial: "VINOS DEL SUR SA",
		Direccion:   "SAN MARTIN 100",
		Localidad:   "MENDOZA",
		Provincia:   "MENDOZA",
	}
	productos := newStubProductoRepo(productoEnCarrito("P1", "1000", 10, 1))
	svc, _, _ := nuevoCheckout(productos, newStubVentaRepo(), inv)

	resp, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{
		Factura: "A", FormaPago: "EFECTIVO", CUIT: &cuit,
	})
	require.NoError(t, err)

	assert.Equal(t, "VINOS DEL SUR SA", resp.Venta.RazonSocial)
	assert.Equal(t, cuit, resp.Venta.DocumentoReceptor)
	require.Len(t, inv.solicitudes, 1)
	assert.Equal(t, afip.CbteFacturaA, inv.solicitudes[0].CbteTipo)
	assert.Equal(t, afip.DocTipoCUIT, inv.solicitudes[0].DocTipo)
}

func TestFinalizarCompraCheckoutEnCurso(t *testing.T) {
	inv := newFakeInvoicer()
	productos := newStubProductoRepo(productoEnCarrito("P1", "1000", 10, 1))
	svc, _, _ := nuevoCheckout(productos, newStubVentaRepo(), inv)

	// Otro checkout tiene tomado el punto de venta.
	require.True(t, svc.guard.TryAcquire(pdv))
	defer svc.guard.Release(pdv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "EFECTIVO"})
	assert.ErrorIs(t, err, ErrCheckoutEnCurso)
	assert.Zero(t, inv.llamadasRemotas())
}

func TestFinalizarCompraFallaPostAutorizacion(t *testing.T) {
	inv := newFakeInvoicer()
	productos := newStubProductoRepo(productoEnCarrito("P1", "1000", 10, 1))
	ventas := newStubVentaRepo()
	ventas.failCreate = true
	svc, _, _ := nuevoCheckout(productos, ventas, inv)

	_, err := svc.FinalizarCompra(context.Background(), dto.FinalizarCompraRequest{Factura: "B", FormaPago: "EFECTIVO"})
	require.Error(t, err)

	// El error identifica el CAE ya emitido para conciliación manual.
	var postAuth *PostAuthorizationError
	require.ErrorAs(t, err, &postAuth)
	assert.Equal(t, "75123456789012", postAuth.CAE)
	assert.Equal(t, int64(1), postAuth.Numero)
	assert.Equal(t, 1, inv.llamadasSolicitar, "jamás se re-solicita un CAE")
}
