package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Pipillas/musa/internal/afip"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/fiscal"
	"github.com/Pipillas/musa/internal/model"
	"github.com/Pipillas/musa/internal/repository"
)

// Invoicer is the fiscal authority client as the checkout needs it.
// *afip.Client satisfies it; tests inject fakes.
type Invoicer interface {
	CUIT() int64
	UltimoAutorizado(ctx context.Context, ptoVta, cbteTipo int) (int64, error)
	SolicitarCAE(ctx context.Context, r *afip.FECAERequest) (*afip.CAEResult, error)
	ConsultarPadron(ctx context.Context, cuit int64) (*afip.Contribuyente, error)
}

// Notifier broadcasts data-changed events to connected sales screens.
type Notifier interface {
	Cambios(ctx context.Context)
}

// TicketPrinter renders the receipt for an authorized sale. Print failures
// never fail the checkout.
type TicketPrinter interface {
	Print(t dto.Ticket) error
}

type CheckoutService struct {
	productos repository.ProductoRepository
	ventas    repository.VentaRepository
	invoicer  Invoicer
	guard     *CheckoutGuard
	notifier  Notifier
	printer   TicketPrinter
	ptoVta    int
}

func NewCheckoutService(
	productos repository.ProductoRepository,
	ventas repository.VentaRepository,
	invoicer Invoicer,
	guard *CheckoutGuard,
	notifier Notifier,
	printer TicketPrinter,
	ptoVta int,
) *CheckoutService {
	return &CheckoutService{
		productos: productos,
		ventas:    ventas,
		invoicer:  invoicer,
		guard:     guard,
		notifier:  notifier,
		printer:   printer,
		ptoVta:    ptoVta,
	}
}

// FinalizarCompra closes the staged cart into a stock-adjusted, persisted
// sale, with or without a fiscal document. Order is strict: every fiscal step
// happens before any local mutation, so a rejected or unreachable AFIP leaves
// stock, cart flags and the ledger untouched. Once the CAE is granted the sale
// is committed locally and any failure from that point is reported as a
// PostAuthorizationError instead of being rolled back — the invoice already
// exists at AFIP and cannot be unissued.
func (s *CheckoutService) FinalizarCompra(ctx context.Context, req dto.FinalizarCompraRequest) (*dto.VentaResponse, error) {
	if !s.guard.TryAcquire(s.ptoVta) {
		return nil, ErrCheckoutEnCurso
	}
	defer s.guard.Release(s.ptoVta)

	items, err := s.productos.CarritoItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("leyendo carrito: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrCarritoVacio
	}

	bruto := decimal.Zero
	for _, it := range items {
		if it.Cantidad < it.CarritoCantidad {
			return nil, fmt.Errorf("%w: %s (%d en stock, %d en carrito)",
				ErrStockInsuficiente, it.Codigo, it.Cantidad, it.CarritoCantidad)
		}
		bruto = bruto.Add(it.Venta.Mul(decimal.NewFromInt(int64(it.CarritoCantidad))))
	}
	descuento := decimal.Zero
	if req.Descuento != nil {
		descuento = *req.Descuento
	}
	bruto = bruto.Sub(descuento)
	if bruto.IsNegative() {
		return nil, ErrDescuentoInvalido
	}

	var docNro int64
	venta := model.Venta{
		TipoFactura:  req.Factura,
		PuntoDeVenta: s.ptoVta,
		Monto:        fiscal.Breakdown(bruto).Total,
		Descuento:    descuento,
		FormaPago:    req.FormaPago,
		Detalle:      req.Detalle,
		Fecha:        time.Now().Format("2006-01-02"),
	}
	if req.Nombre != nil {
		venta.Nombre = *req.Nombre
	}
	if req.Domicilio != nil {
		venta.Domicilio = *req.Domicilio
	}

	// Venta por forma de pago: sin comprobante, sin tocar AFIP. Se registra
	// en el libro con CAE nulo y sigue reversible por devolución.
	if req.Factura == "" {
		if req.DNI != nil {
			venta.DocumentoReceptor = *req.DNI
		}
		if err := s.commit(ctx, items, &venta); err != nil {
			return nil, err
		}
		imp := fiscal.Breakdown(bruto)
		resp := &dto.VentaResponse{
			Venta:    &venta,
			Importes: dto.Importes{Total: imp.Total, Neto: imp.Neto, IVA: imp.IVA},
		}
		s.imprimir(&venta, imp, "")
		return resp, nil
	}

	kind := fiscal.FacturaDe(req.Factura)

	switch kind {
	case fiscal.FacturaA:
		if req.CUIT == nil {
			return nil, fiscal.ErrCUITRequerido
		}
		docNro = *req.CUIT
		contrib, err := s.invoicer.ConsultarPadron(ctx, docNro)
		if err != nil {
			if errors.Is(err, afip.ErrContribuyenteNoInscripto) {
				return nil, ErrContribuyenteDesconocido
			}
			return nil, err
		}
		venta.RazonSocial = contrib.RazonSocial
		venta.Domicilio = contrib.Direccion
		venta.Localidad = contrib.Localidad
		venta.Provincia = contrib.Provincia
	default:
		if req.DNI != nil {
			docNro = *req.DNI
		}
	}
	venta.DocumentoReceptor = docNro

	ultimo, err := s.invoicer.UltimoAutorizado(ctx, s.ptoVta, kind.CbteTipo())
	if err != nil {
		return nil, err
	}

	comp, err := fiscal.BuildComprobante(kind, docNro, ultimo, bruto, nil)
	if err != nil {
		return nil, err
	}
	comp.PtoVta = s.ptoVta

	res, err := s.invoicer.SolicitarCAE(ctx, comp)
	if err != nil {
		return nil, err
	}

	// Punto de no retorno: el CAE existe. Todo error de aquí en adelante se
	// informa como PostAuthorizationError y la venta se persiste igual.
	venta.NumeroFactura = res.Numero
	venta.StringNumeroFactura = fiscal.FormatNumero(kind.Letra(), s.ptoVta, res.Numero)
	venta.CAE = &res.CAE
	venta.CAEVencimiento = &res.Vencimiento

	if postErr := s.commit(ctx, items, &venta); postErr != nil {
		return nil, &PostAuthorizationError{CAE: res.CAE, Numero: res.Numero, Err: postErr}
	}

	imp := fiscal.Breakdown(bruto)
	qr := fiscal.NewQRPayload(
		venta.Fecha, s.invoicer.CUIT(), s.ptoVta, kind.CbteTipo(),
		res.Numero, imp.Total, comp.DocTipo, docNro, res.CAE,
	)
	resp := &dto.VentaResponse{
		Venta:    &venta,
		QRURL:    qr.URL(),
		Importes: dto.Importes{Total: imp.Total, Neto: imp.Neto, IVA: imp.IVA},
	}

	s.imprimir(&venta, imp, qr.URL())

	return resp, nil
}

// commit applies the local effects of a closed sale: per-item stock decrement,
// ledger row, cart flags reset, change broadcast. It keeps going past failures
// and returns the first one; each mutation is independent and every one that
// can be applied should be.
func (s *CheckoutService) commit(ctx context.Context, items []model.Producto, venta *model.Venta) error {
	var firstErr error
	for _, it := range items {
		if err := s.productos.AjustarStock(ctx, it.ID, -it.CarritoCantidad); err != nil {
			log.Error().Err(err).Str("producto", it.Codigo).Msg("Error descontando stock")
			if firstErr == nil {
				firstErr = err
			}
		}
		venta.Productos = append(venta.Productos, model.VentaItem{
			ProductoID: it.ID,
			Codigo:     it.Codigo,
			Nombre:     it.Nombre,
			Precio:     it.Venta,
			Cantidad:   it.CarritoCantidad,
		})
	}

	if err := s.ventas.Create(ctx, nil, venta); err != nil {
		log.Error().Err(err).Msg("Error persistiendo venta")
		if firstErr == nil {
			firstErr = err
		}
	}

	if err := s.productos.ResetFlags(ctx); err != nil {
		log.Error().Err(err).Msg("Error limpiando flags de carrito")
		if firstErr == nil {
			firstErr = err
		}
	}

	s.notifier.Cambios(ctx)
	return firstErr
}

func (s *CheckoutService) imprimir(v *model.Venta, imp fiscal.Importes, qrURL string) {
	t := dto.Ticket{
		NumeroFactura: v.StringNumeroFactura,
		TipoFactura:   v.TipoFactura,
		Fecha:         v.Fecha,
		QRURL:         qrURL,
		RazonSocial:   v.RazonSocial,
		Neto:          imp.Neto,
		IVA:           imp.IVA,
		Total:         imp.Total,
		Descuento:     v.Descuento,
		FormaPago:     v.FormaPago,
	}
	if v.CAE != nil {
		t.CAE = *v.CAE
	}
	if v.CAEVencimiento != nil {
		t.CAEVto = *v.CAEVencimiento
	}
	for _, it := range v.Productos {
		t.Items = append(t.Items, dto.TicketItem{
			Codigo: it.Codigo, Nombre: it.Nombre, Cantidad: it.Cantidad, Precio: it.Precio,
		})
	}
	if err := s.printer.Print(t); err != nil {
		log.Warn().Err(err).Msg("No se pudo imprimir el ticket")
	}
}
