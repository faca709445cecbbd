package service

// Stubs en memoria de los repositorios y del cliente fiscal. El objetivo de
// estos tests es el ORDEN del checkout: nada local se toca antes del CAE, y
// después del CAE nada remoto vuelve a tocarse.

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/afip"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/model"
)

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto

	ajustes    []int // deltas aplicados, en orden
	flagsReset bool

	failAjuste bool
}

func newStubProductoRepo(productos ...*model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
	for _, p := range productos {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) CarritoItems(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Carrito {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) SetCarrito(_ context.Context, id uuid.UUID, enCarrito bool, cantidad int) error {
	p := r.productos[id]
	p.Carrito = enCarrito
	p.CarritoCantidad = cantidad
	return nil
}

func (r *stubProductoRepo) SetFavorito(_ context.Context, id uuid.UUID, favorito bool) error {
	r.productos[id].Favorito = favorito
	return nil
}

func (r *stubProductoRepo) UpdateCantidadCarrito(_ context.Context, id uuid.UUID, cantidad int) error {
	r.productos[id].CarritoCantidad = cantidad
	return nil
}

func (r *stubProductoRepo) ResetFlags(_ context.Context) error {
	for _, p := range r.productos {
		p.Carrito = false
		p.Favorito = false
		p.CarritoCantidad = 0
	}
	r.flagsReset = true
	return nil
}

func (r *stubProductoRepo) AjustarStock(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAjuste {
		return errors.New("deadlock detected")
	}
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Cantidad += delta
	r.ajustes = append(r.ajustes, delta)
	return nil
}

func (r *stubProductoRepo) TotalCantidad(_ context.Context) (int64, error) {
	var total int64
	for _, p := range r.productos {
		total += int64(p.Cantidad)
	}
	return total, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas     map[uuid.UUID]*model.Venta
	failCreate bool
}

func newStubVentaRepo(ventas ...*model.Venta) *stubVentaRepo {
	r := &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
	for _, v := range ventas {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		r.ventas[v.ID] = v
	}
	return r
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if r.failCreate {
		return errors.New("connection refused")
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cloned := *v
	r.ventas[v.ID] = &cloned
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *v
	return &cloned, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) MarcarNotaCredito(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	v, ok := r.ventas[id]
	if !ok || v.NotaCredito {
		return 0, nil
	}
	v.NotaCredito = true
	return 1, nil
}

func (r *stubVentaRepo) TotalesPorFormaPago(_ context.Context, fecha string) (map[string]decimal.Decimal, error) {
	totales := make(map[string]decimal.Decimal)
	for _, v := range r.ventas {
		if v.Fecha == fecha && !v.NotaCredito {
			totales[v.FormaPago] = totales[v.FormaPago].Add(v.Monto)
		}
	}
	return totales, nil
}

func (r *stubVentaRepo) TotalesFacturado(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// count returns how many ledger rows exist.
func (r *stubVentaRepo) count() int { return len(r.ventas) }

// ── TurnoRepository ──────────────────────────────────────────────────────────

type stubTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
}

func newStubTurnoRepo(turnos ...*model.Turno) *stubTurnoRepo {
	r := &stubTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
	for _, t := range turnos {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		r.turnos[t.ID] = t
	}
	return r
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.turnos, id)
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTurnoRepo) ListByFecha(_ context.Context, fecha string) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.turnos {
		if t.Fecha == fecha {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTurnoRepo) ListByMes(_ context.Context, _ string) ([]model.Turno, error) {
	return nil, nil
}

func (r *stubTurnoRepo) ListDesde(_ context.Context, desde string) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.turnos {
		if t.Fecha >= desde {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTurnoRepo) OcupacionPorFecha(_ context.Context, fecha string) (map[string]int, error) {
	ocupacion := make(map[string]int)
	for _, t := range r.turnos {
		if t.Fecha == fecha {
			ocupacion[t.Turno] += t.Cantidad
		}
	}
	return ocupacion, nil
}

func (r *stubTurnoRepo) DescontarCobrado(_ context.Context, _ *gorm.DB, id uuid.UUID, monto decimal.Decimal) error {
	t, ok := r.turnos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Cobrado = t.Cobrado.Sub(monto)
	return nil
}

// ── Invoicer ─────────────────────────────────────────────────────────────────

// fakeInvoicer simula AFIP: numeración monótona por (ptoVta, cbteTipo) y
// respuestas configurables por llamada.
type fakeInvoicer struct {
	mu sync.Mutex

	ultimos map[[2]int]int64 // (ptoVta, cbteTipo) → último autorizado

	padron    map[int64]*afip.Contribuyente
	padronErr error

	ultimoErr    error
	solicitarErr error

	llamadasUltimo    int
	llamadasSolicitar int
	llamadasPadron    int

	solicitudes []*afip.FECAERequest
}

func newFakeInvoicer() *fakeInvoicer {
	return &fakeInvoicer{
		ultimos: make(map[[2]int]int64),
		padron:  make(map[int64]*afip.Contribuyente),
	}
}

func (f *fakeInvoicer) CUIT() int64 { return 20111111112 }

func (f *fakeInvoicer) UltimoAutorizado(_ context.Context, ptoVta, cbteTipo int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.llamadasUltimo++
	if f.ultimoErr != nil {
		return 0, f.ultimoErr
	}
	return f.ultimos[[2]int{ptoVta, cbteTipo}], nil
}

func (f *fakeInvoicer) SolicitarCAE(_ context.Context, r *afip.FECAERequest) (*afip.CAEResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.llamadasSolicitar++
	if f.solicitarErr != nil {
		return nil, f.solicitarErr
	}
	key := [2]int{r.PtoVta, r.CbteTipo}
	if r.CbteDesde != f.ultimos[key]+1 {
		return nil, &afip.FiscalRejection{Codigo: 10016, Mensaje: "numero de comprobante fuera de secuencia"}
	}
	f.ultimos[key] = r.CbteDesde
	f.solicitudes = append(f.solicitudes, r)
	return &afip.CAEResult{CAE: "75123456789012", Vencimiento: "20260911", Numero: r.CbteDesde}, nil
}

func (f *fakeInvoicer) ConsultarPadron(_ context.Context, cuit int64) (*afip.Contribuyente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.llamadasPadron++
	if f.padronErr != nil {
		return nil, f.padronErr
	}
	contrib, ok := f.padron[cuit]
	if !ok {
		return nil, afip.ErrContribuyenteNoInscripto
	}
	return contrib, nil
}

func (f *fakeInvoicer) llamadasRemotas() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.llamadasUltimo + f.llamadasSolicitar + f.llamadasPadron
}

// ── Notifier / Printer ───────────────────────────────────────────────────────

type fakeNotifier struct{ cambios int }

func (n *fakeNotifier) Cambios(_ context.Context) { n.cambios++ }

type fakePrinter struct{ tickets []dto.Ticket }

func (p *fakePrinter) Print(t dto.Ticket) error {
	p.tickets = append(p.tickets, t)
	return nil
}
