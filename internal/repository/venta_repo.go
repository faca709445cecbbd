package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/model"
)

// VentaRepository is the append-only sale ledger. Rows are written once at
// checkout and never updated except for the nota_credito reversal mark.
type VentaRepository interface {
	// Create persists the venta and its items inside the given transaction.
	// Pass nil to use the repository's own connection.
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// MarcarNotaCredito flags the original sale as reversed. Returns
	// gorm.ErrRecordNotFound semantics via RowsAffected when already flagged.
	MarcarNotaCredito(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	TotalesPorFormaPago(ctx context.Context, fecha string) (map[string]decimal.Decimal, error)
	TotalesFacturado(ctx context.Context, mes string) (decimal.Decimal, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return r.conn(tx).WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Productos").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Fecha != "" {
		q = q.Where("fecha = ?", filter.Fecha)
	}
	if filter.Mes != "" {
		q = q.Where("fecha LIKE ?", filter.Mes+"%")
	}
	if filter.FormaPago != "" {
		q = q.Where("forma_pago = ?", filter.FormaPago)
	}
	if filter.TipoFactura != "" {
		q = q.Where("tipo_factura = ?", filter.TipoFactura)
	}
	switch filter.Tipo {
	case "reserva":
		q = q.Where("turno_id IS NOT NULL")
	case "vino":
		q = q.Where("turno_id IS NULL")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Productos").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) MarcarNotaCredito(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := r.conn(tx).WithContext(ctx).Model(&model.Venta{}).
		Where("id = ? AND nota_credito = false", id).
		Update("nota_credito", true)
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) TotalesPorFormaPago(ctx context.Context, fecha string) (map[string]decimal.Decimal, error) {
	type fila struct {
		FormaPago string
		Total     decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("forma_pago, COALESCE(SUM(monto), 0) AS total").
		Where("fecha = ? AND nota_credito = false", fecha).
		Group("forma_pago").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	totales := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		totales[f.FormaPago] = f.Total
	}
	return totales, nil
}

func (r *ventaRepo) TotalesFacturado(ctx context.Context, mes string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("fecha LIKE ? AND cae IS NOT NULL AND nota_credito = false", mes+"%").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
