package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/model"
	"github.com/Pipillas/musa/internal/repository"
)

// CajaService registra movimientos de caja ajenos a ventas (aportes, retiros,
// gastos, ingresos, cierres) y arma el resumen diario.
type CajaService struct {
	operaciones repository.OperacionRepository
	ventas      repository.VentaRepository
	notifier    Notifier
}

func NewCajaService(operaciones repository.OperacionRepository, ventas repository.VentaRepository, notifier Notifier) *CajaService {
	return &CajaService{operaciones: operaciones, ventas: ventas, notifier: notifier}
}

func (s *CajaService) CrearOperacion(ctx context.Context, req dto.CreateOperacionRequest) (*model.Operacion, error) {
	op := &model.Operacion{
		Monto:         req.Monto,
		FormaPago:     req.FormaPago,
		TipoOperacion: req.TipoOperacion,
		Nombre:        req.Nombre,
		Descripcion:   req.Descripcion,
		FilePath:      req.FilePath,
		Fecha:         req.Fecha,
	}
	if err := s.operaciones.Create(ctx, op); err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return op, nil
}

// ActualizarOperacion corrige un movimiento ya registrado. Tipo y fecha son
// inmutables: un movimiento mal clasificado se anula con su contrapartida.
func (s *CajaService) ActualizarOperacion(ctx context.Context, id uuid.UUID, req dto.UpdateOperacionRequest) (*model.Operacion, error) {
	op, err := s.operaciones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Monto != nil {
		op.Monto = *req.Monto
	}
	if req.FormaPago != nil {
		op.FormaPago = *req.FormaPago
	}
	if req.Nombre != nil {
		op.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		op.Descripcion = *req.Descripcion
	}
	if req.FilePath != nil {
		op.FilePath = req.FilePath
	}
	if err := s.operaciones.Update(ctx, op); err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return op, nil
}

func (s *CajaService) OperacionesDelDia(ctx context.Context, fecha string) ([]model.Operacion, error) {
	return s.operaciones.ListByFecha(ctx, fecha)
}

func (s *CajaService) OperacionesDelMes(ctx context.Context, mes string) ([]model.Operacion, error) {
	return s.operaciones.ListByMes(ctx, mes)
}

// TotalesPorNombre agrupa un tipo de movimiento por contraparte en el mes
// (p. ej. gastos por proveedor).
func (s *CajaService) TotalesPorNombre(ctx context.Context, mes, tipo string) (map[string]decimal.Decimal, error) {
	return s.operaciones.TotalPorNombre(ctx, mes, tipo)
}

func (s *CajaService) Nombres(ctx context.Context, tipo string) ([]string, error) {
	return s.operaciones.Nombres(ctx, tipo)
}

// Resumen computes the day's cash position: sales grouped by payment method
// plus non-sale movements. SaldoEfectivo = ventas EFECTIVO + aportes +
// ingresos − retiros − gastos.
func (s *CajaService) Resumen(ctx context.Context, fecha string) (*dto.ResumenCaja, error) {
	ventasPorPago, err := s.ventas.TotalesPorFormaPago(ctx, fecha)
	if err != nil {
		return nil, err
	}

	totales := make(map[string]decimal.Decimal, 4)
	for _, tipo := range []string{model.OperacionAporte, model.OperacionRetiro, model.OperacionGasto, model.OperacionIngreso} {
		t, err := s.operaciones.TotalPorTipo(ctx, fecha, tipo)
		if err != nil {
			return nil, err
		}
		totales[tipo] = t
	}

	saldo := ventasPorPago["EFECTIVO"].
		Add(totales[model.OperacionAporte]).
		Add(totales[model.OperacionIngreso]).
		Sub(totales[model.OperacionRetiro]).
		Sub(totales[model.OperacionGasto])

	return &dto.ResumenCaja{
		Fecha:         fecha,
		VentasPorPago: ventasPorPago,
		Aportes:       totales[model.OperacionAporte],
		Retiros:       totales[model.OperacionRetiro],
		Gastos:        totales[model.OperacionGasto],
		Ingresos:      totales[model.OperacionIngreso],
		SaldoEfectivo: saldo,
	}, nil
}
