package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/fiscal"
	"github.com/Pipillas/musa/internal/model"
	"github.com/Pipillas/musa/internal/repository"
)

// TurnoService administra reservas de degustación y su cobro. Cobrar puede
// opcionalmente facturar el monto con una Factura B ligada al turno.
type TurnoService struct {
	turnos   repository.TurnoRepository
	ventas   repository.VentaRepository
	invoicer Invoicer
	guard    *CheckoutGuard
	notifier Notifier
	ptoVta   int
}

func NewTurnoService(
	turnos repository.TurnoRepository,
	ventas repository.VentaRepository,
	invoicer Invoicer,
	guard *CheckoutGuard,
	notifier Notifier,
	ptoVta int,
) *TurnoService {
	return &TurnoService{
		turnos:   turnos,
		ventas:   ventas,
		invoicer: invoicer,
		guard:    guard,
		notifier: notifier,
		ptoVta:   ptoVta,
	}
}

func (s *TurnoService) Create(ctx context.Context, req dto.CreateTurnoRequest) (*model.Turno, error) {
	t := &model.Turno{
		Fecha:    req.Fecha,
		Turno:    req.Turno,
		Nombre:   req.Nombre,
		Cantidad: req.Cantidad,
		Total:    req.Total,
	}
	if err := s.turnos.Create(ctx, t); err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return t, nil
}

func (s *TurnoService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTurnoRequest) (*model.Turno, error) {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Turno != nil {
		t.Turno = *req.Turno
	}
	if req.Nombre != nil {
		t.Nombre = *req.Nombre
	}
	if req.Cantidad != nil {
		t.Cantidad = *req.Cantidad
	}
	if req.Total != nil {
		t.Total = *req.Total
	}
	if err := s.turnos.Update(ctx, t); err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return t, nil
}

func (s *TurnoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.turnos.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

func (s *TurnoService) PorFecha(ctx context.Context, fecha string) ([]model.Turno, error) {
	return s.turnos.ListByFecha(ctx, fecha)
}

func (s *TurnoService) Proximos(ctx context.Context, desde string) ([]model.Turno, error) {
	return s.turnos.ListDesde(ctx, desde)
}

func (s *TurnoService) Ocupacion(ctx context.Context, fecha string) (map[string]int, error) {
	return s.turnos.OcupacionPorFecha(ctx, fecha)
}

func (s *TurnoService) PorMes(ctx context.Context, mes string) ([]model.Turno, error) {
	return s.turnos.ListByMes(ctx, mes)
}

// Cobrar registers a payment against the turno. With Facturar set, a Factura B
// for the collected amount is authorized first — same fiscal-first ordering as
// checkout — and the resulting venta is linked to the turno so a later credit
// note rolls Cobrado back instead of touching stock.
func (s *TurnoService) Cobrar(ctx context.Context, id uuid.UUID, req dto.CobrarTurnoRequest) (*model.Turno, *dto.VentaResponse, error) {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var ventaResp *dto.VentaResponse
	if req.Facturar {
		if !s.guard.TryAcquire(s.ptoVta) {
			return nil, nil, ErrCheckoutEnCurso
		}
		defer s.guard.Release(s.ptoVta)

		var docNro int64
		if req.DNI != nil {
			docNro = *req.DNI
		}

		ultimo, err := s.invoicer.UltimoAutorizado(ctx, s.ptoVta, fiscal.FacturaB.CbteTipo())
		if err != nil {
			return nil, nil, err
		}
		comp, err := fiscal.BuildComprobante(fiscal.FacturaB, docNro, ultimo, req.Monto, nil)
		if err != nil {
			return nil, nil, err
		}
		comp.PtoVta = s.ptoVta

		res, err := s.invoicer.SolicitarCAE(ctx, comp)
		if err != nil {
			return nil, nil, err
		}

		imp := fiscal.Breakdown(req.Monto)
		venta := model.Venta{
			TipoFactura:         "B",
			NumeroFactura:       res.Numero,
			StringNumeroFactura: fiscal.FormatNumero("B", s.ptoVta, res.Numero),
			PuntoDeVenta:        s.ptoVta,
			CAE:                 &res.CAE,
			CAEVencimiento:      &res.Vencimiento,
			DocumentoReceptor:   docNro,
			Monto:               imp.Total,
			FormaPago:           req.FormaDeCobro,
			Detalle:             "Cobro de turno " + t.Turno + " " + t.Fecha,
			Fecha:               time.Now().Format("2006-01-02"),
			TurnoID:             &t.ID,
		}
		if req.Nombre != nil {
			venta.Nombre = *req.Nombre
		}

		var postErr error
		if err := s.ventas.Create(ctx, nil, &venta); err != nil {
			log.Error().Err(err).Str("cae", res.CAE).Msg("Error persistiendo venta del turno")
			postErr = err
		}
		t.Facturado = true

		qr := fiscal.NewQRPayload(
			venta.Fecha, s.invoicer.CUIT(), s.ptoVta, fiscal.FacturaB.CbteTipo(),
			res.Numero, imp.Total, comp.DocTipo, docNro, res.CAE,
		)
		ventaResp = &dto.VentaResponse{
			Venta:    &venta,
			QRURL:    qr.URL(),
			Importes: dto.Importes{Total: imp.Total, Neto: imp.Neto, IVA: imp.IVA},
		}

		if postErr != nil {
			// El turno igual registra el cobro; el CAE ya fue emitido.
			t.Cobrado = t.Cobrado.Add(req.Monto)
			t.FormaDeCobro = req.FormaDeCobro
			if err := s.turnos.Update(ctx, t); err != nil {
				log.Error().Err(err).Msg("Error actualizando turno post-autorizacion")
			}
			return nil, nil, &PostAuthorizationError{CAE: res.CAE, Numero: res.Numero, Err: postErr}
		}
	}

	t.Cobrado = t.Cobrado.Add(req.Monto)
	t.FormaDeCobro = req.FormaDeCobro
	if err := s.turnos.Update(ctx, t); err != nil {
		if ventaResp != nil {
			venta := ventaResp.Venta
			return nil, nil, &PostAuthorizationError{CAE: *venta.CAE, Numero: venta.NumeroFactura, Err: err}
		}
		return nil, nil, err
	}

	s.notifier.Cambios(ctx)
	return t, ventaResp, nil
}
