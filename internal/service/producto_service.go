package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/model"
	"github.com/Pipillas/musa/internal/repository"
)

type ProductoService struct {
	repo     repository.ProductoRepository
	notifier Notifier
}

func NewProductoService(repo repository.ProductoRepository, notifier Notifier) *ProductoService {
	return &ProductoService{repo: repo, notifier: notifier}
}

func (s *ProductoService) Create(ctx context.Context, req dto.CreateProductoRequest) (*model.Producto, error) {
	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Bodega:      req.Bodega,
		Cepa:        req.Cepa,
		Year:        req.Year,
		Origen:      req.Origen,
		Descripcion: req.Descripcion,
		Posicion:    req.Posicion,
		Foto:        req.Foto,
		Costo:       req.Costo,
		Venta:       req.Venta,
		Cantidad:    req.Cantidad,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return p, nil
}

func (s *ProductoService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductoRequest) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Bodega != nil {
		p.Bodega = *req.Bodega
	}
	if req.Cepa != nil {
		p.Cepa = *req.Cepa
	}
	if req.Year != nil {
		p.Year = *req.Year
	}
	if req.Origen != nil {
		p.Origen = *req.Origen
	}
	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.Posicion != nil {
		p.Posicion = *req.Posicion
	}
	if req.Foto != nil {
		p.Foto = *req.Foto
	}
	if req.Costo != nil {
		p.Costo = *req.Costo
	}
	if req.Venta != nil {
		p.Venta = *req.Venta
	}
	if req.Cantidad != nil {
		p.Cantidad = *req.Cantidad
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return p, nil
}

func (s *ProductoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

func (s *ProductoService) Get(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductoService) GetByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	return s.repo.FindByCodigo(ctx, codigo)
}

func (s *ProductoService) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// AgregarAlCarrito stages a product for the next checkout.
func (s *ProductoService) AgregarAlCarrito(ctx context.Context, id uuid.UUID, cantidad int) error {
	if err := s.repo.SetCarrito(ctx, id, true, cantidad); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

// AgregarPorCodigo stages a product scanned by barcode. Ya en el carrito:
// suma una unidad; si no, entra con cantidad 1.
func (s *ProductoService) AgregarPorCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if p.Carrito {
		nueva := p.CarritoCantidad + 1
		err = s.repo.UpdateCantidadCarrito(ctx, p.ID, nueva)
		p.CarritoCantidad = nueva
	} else {
		err = s.repo.SetCarrito(ctx, p.ID, true, 1)
		p.Carrito = true
		p.CarritoCantidad = 1
	}
	if err != nil {
		return nil, err
	}
	s.notifier.Cambios(ctx)
	return p, nil
}

func (s *ProductoService) QuitarDelCarrito(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetCarrito(ctx, id, false, 0); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

func (s *ProductoService) CambiarCantidadCarrito(ctx context.Context, id uuid.UUID, cantidad int) error {
	if err := s.repo.UpdateCantidadCarrito(ctx, id, cantidad); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

func (s *ProductoService) MarcarFavorito(ctx context.Context, id uuid.UUID, favorito bool) error {
	if err := s.repo.SetFavorito(ctx, id, favorito); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

func (s *ProductoService) Carrito(ctx context.Context) ([]model.Producto, error) {
	return s.repo.CarritoItems(ctx)
}

func (s *ProductoService) VaciarCarrito(ctx context.Context) error {
	if err := s.repo.ResetFlags(ctx); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

// AjustarStock applies a manual inventory correction outside of any sale.
func (s *ProductoService) AjustarStock(ctx context.Context, id uuid.UUID, delta int) error {
	if err := s.repo.AjustarStock(ctx, id, delta); err != nil {
		return err
	}
	s.notifier.Cambios(ctx)
	return nil
}

func (s *ProductoService) StockTotal(ctx context.Context) (int64, error) {
	return s.repo.TotalCantidad(ctx)
}
