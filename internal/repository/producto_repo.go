package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/model"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)

	// Carrito staging
	CarritoItems(ctx context.Context) ([]model.Producto, error)
	SetCarrito(ctx context.Context, id uuid.UUID, enCarrito bool, cantidad int) error
	SetFavorito(ctx context.Context, id uuid.UUID, favorito bool) error
	UpdateCantidadCarrito(ctx context.Context, id uuid.UUID, cantidad int) error
	// ResetFlags clears carrito/favorito staging on every flagged product.
	ResetFlags(ctx context.Context) error

	// AjustarStock applies an atomic cantidad += delta on one product.
	AjustarStock(ctx context.Context, id uuid.UUID, delta int) error
	TotalCantidad(ctx context.Context) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, id).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"codigo ILIKE ? OR nombre ILIKE ? OR bodega ILIKE ? OR cepa ILIKE ? OR origen ILIKE ?",
			like, like, like, like, like,
		)
	}
	if filter.Carrito {
		q = q.Where("carrito = true")
	}
	if filter.Favorito {
		q = q.Where("favorito = true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch {
	case filter.OrdenCepa:
		q = q.Order("cepa ASC")
	case filter.OrdenCantidad:
		q = q.Order("cantidad ASC")
	default:
		q = q.Order("created_at DESC")
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) CarritoItems(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("carrito = true").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) SetCarrito(ctx context.Context, id uuid.UUID, enCarrito bool, cantidad int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Updates(map[string]interface{}{"carrito": enCarrito, "carrito_cantidad": cantidad}).Error
}

func (r *productoRepo) SetFavorito(ctx context.Context, id uuid.UUID, favorito bool) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Update("favorito", favorito).Error
}

func (r *productoRepo) UpdateCantidadCarrito(ctx context.Context, id uuid.UUID, cantidad int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Update("carrito_cantidad", cantidad).Error
}

func (r *productoRepo) ResetFlags(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("carrito = true OR favorito = true").
		Updates(map[string]interface{}{"carrito": false, "favorito": false, "carrito_cantidad": 0}).Error
}

func (r *productoRepo) AjustarStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Update("cantidad", gorm.Expr("cantidad + ?", delta)).Error
}

func (r *productoRepo) TotalCantidad(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Select("COALESCE(SUM(cantidad), 0)").Scan(&total).Error
	return total, err
}
