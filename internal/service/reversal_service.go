package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Pipillas/musa/internal/afip"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/fiscal"
	"github.com/Pipillas/musa/internal/model"
	"github.com/Pipillas/musa/internal/repository"
)

// ReversalService emite notas de crédito y devoluciones sin comprobante.
type ReversalService struct {
	productos repository.ProductoRepository
	ventas    repository.VentaRepository
	turnos    repository.TurnoRepository
	invoicer  Invoicer
	guard     *CheckoutGuard
	notifier  Notifier
}

func NewReversalService(
	productos repository.ProductoRepository,
	ventas repository.VentaRepository,
	turnos repository.TurnoRepository,
	invoicer Invoicer,
	guard *CheckoutGuard,
	notifier Notifier,
) *ReversalService {
	return &ReversalService{
		productos: productos,
		ventas:    ventas,
		turnos:    turnos,
		invoicer:  invoicer,
		guard:     guard,
		notifier:  notifier,
	}
}

// NotaCredito reverses an authorized sale with a credit note of the same
// letter, referencing the original comprobante. The same fiscal-first ordering
// as checkout applies: a rejected or unreachable AFIP leaves the ledger and
// stock untouched, and the original stays reversible. A sale can be reversed
// at most once.
//
// Sales linked to a turno carry no physical items: their reversal reduces the
// turno's cobrado amount instead of restocking.
func (s *ReversalService) NotaCredito(ctx context.Context, ventaID uuid.UUID) (*dto.VentaResponse, error) {
	original, err := s.ventas.FindByID(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	if original.NotaCredito {
		return nil, ErrVentaAnulada
	}
	if original.CAE == nil {
		return nil, ErrVentaNoFacturada
	}

	if !s.guard.TryAcquire(original.PuntoDeVenta) {
		return nil, ErrCheckoutEnCurso
	}
	defer s.guard.Release(original.PuntoDeVenta)

	kind := fiscal.NotaCreditoDe(original.TipoFactura)
	facturaOriginal := fiscal.FacturaDe(original.TipoFactura)

	ultimo, err := s.invoicer.UltimoAutorizado(ctx, original.PuntoDeVenta, kind.CbteTipo())
	if err != nil {
		return nil, err
	}

	docNro := original.DocumentoReceptor
	comp, err := fiscal.BuildComprobante(kind, docNro, ultimo, original.Monto, &afip.CbteAsociado{
		Tipo:   facturaOriginal.CbteTipo(),
		PtoVta: original.PuntoDeVenta,
		Nro:    original.NumeroFactura,
	})
	if err != nil {
		return nil, err
	}
	comp.PtoVta = original.PuntoDeVenta

	res, err := s.invoicer.SolicitarCAE(ctx, comp)
	if err != nil {
		return nil, err
	}

	// CAE de la nota de crédito otorgado: compromiso local obligatorio.
	var postErr error

	filas, err := s.ventas.MarcarNotaCredito(ctx, nil, original.ID)
	if err != nil {
		postErr = err
	} else if filas == 0 {
		// Carrera perdida contra otra anulación; la NC ya fue emitida así que
		// se informa igual como falla post-autorización.
		postErr = ErrVentaAnulada
	}

	if original.TurnoID != nil {
		if err := s.turnos.DescontarCobrado(ctx, nil, *original.TurnoID, original.Monto); err != nil {
			log.Error().Err(err).Msg("Error descontando cobrado del turno")
			if postErr == nil {
				postErr = err
			}
		}
	} else {
		for _, it := range original.Productos {
			if err := s.productos.AjustarStock(ctx, it.ProductoID, it.Cantidad); err != nil {
				log.Error().Err(err).Str("producto", it.Codigo).Msg("Error reponiendo stock")
				if postErr == nil {
					postErr = err
				}
			}
		}
	}

	nc := model.Venta{
		TipoFactura:         original.TipoFactura,
		NumeroFactura:       res.Numero,
		StringNumeroFactura: fmt.Sprintf("NC%s-%05d-%08d", kind.Letra(), original.PuntoDeVenta, res.Numero),
		PuntoDeVenta:        original.PuntoDeVenta,
		CAE:                 &res.CAE,
		CAEVencimiento:      &res.Vencimiento,
		DocumentoReceptor:   original.DocumentoReceptor,
		RazonSocial:         original.RazonSocial,
		Domicilio:           original.Domicilio,
		Localidad:           original.Localidad,
		Provincia:           original.Provincia,
		Nombre:              original.Nombre,
		Monto:               original.Monto,
		FormaPago:           original.FormaPago,
		Detalle:             "Nota de credito de " + original.StringNumeroFactura,
		Fecha:               time.Now().Format("2006-01-02"),
		NotaCredito:         true,
		TurnoID:             original.TurnoID,
	}
	if err := s.ventas.Create(ctx, nil, &nc); err != nil {
		log.Error().Err(err).Str("cae", res.CAE).Msg("Error persistiendo nota de credito")
		if postErr == nil {
			postErr = err
		}
	}

	s.notifier.Cambios(ctx)

	if postErr != nil {
		return nil, &PostAuthorizationError{CAE: res.CAE, Numero: res.Numero, Err: postErr}
	}

	imp := fiscal.Breakdown(original.Monto)
	qr := fiscal.NewQRPayload(
		nc.Fecha, s.invoicer.CUIT(), nc.PuntoDeVenta, kind.CbteTipo(),
		res.Numero, imp.Total, comp.DocTipo, docNro, res.CAE,
	)
	return &dto.VentaResponse{
		Venta:    &nc,
		QRURL:    qr.URL(),
		Importes: dto.Importes{Total: imp.Total, Neto: imp.Neto, IVA: imp.IVA},
	}, nil
}

// Devolucion reverses a sale that never got a fiscal document: it restocks the
// items and flags the sale, without touching AFIP. Authorized sales must go
// through NotaCredito instead.
func (s *ReversalService) Devolucion(ctx context.Context, ventaID uuid.UUID) error {
	v, err := s.ventas.FindByID(ctx, ventaID)
	if err != nil {
		return err
	}
	if v.NotaCredito {
		return ErrVentaAnulada
	}
	if v.CAE != nil {
		return ErrVentaFacturada
	}

	filas, err := s.ventas.MarcarNotaCredito(ctx, nil, v.ID)
	if err != nil {
		return err
	}
	if filas == 0 {
		return ErrVentaAnulada
	}

	if v.TurnoID != nil {
		if err := s.turnos.DescontarCobrado(ctx, nil, *v.TurnoID, v.Monto); err != nil {
			return err
		}
	} else {
		for _, it := range v.Productos {
			if err := s.productos.AjustarStock(ctx, it.ProductoID, it.Cantidad); err != nil {
				return err
			}
		}
	}

	s.notifier.Cambios(ctx)
	return nil
}
