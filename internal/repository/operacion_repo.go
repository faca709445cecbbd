package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/model"
)

type OperacionRepository interface {
	Create(ctx context.Context, op *model.Operacion) error
	Update(ctx context.Context, op *model.Operacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operacion, error)
	ListByFecha(ctx context.Context, fecha string) ([]model.Operacion, error)
	ListByMes(ctx context.Context, mes string) ([]model.Operacion, error)
	TotalPorTipo(ctx context.Context, fecha, tipo string) (decimal.Decimal, error)
	// TotalPorNombre agrupa los movimientos de un tipo por contraparte (Nombre)
	// dentro de un mes YYYY-MM.
	TotalPorNombre(ctx context.Context, mes, tipo string) (map[string]decimal.Decimal, error)
	// Nombres lista las contrapartes distintas registradas para un tipo.
	Nombres(ctx context.Context, tipo string) ([]string, error)
}

type operacionRepo struct{ db *gorm.DB }

func NewOperacionRepository(db *gorm.DB) OperacionRepository { return &operacionRepo{db: db} }

func (r *operacionRepo) Create(ctx context.Context, op *model.Operacion) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *operacionRepo) Update(ctx context.Context, op *model.Operacion) error {
	return r.db.WithContext(ctx).Save(op).Error
}

func (r *operacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Operacion, error) {
	var op model.Operacion
	if err := r.db.WithContext(ctx).First(&op, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operacionRepo) ListByFecha(ctx context.Context, fecha string) ([]model.Operacion, error) {
	var ops []model.Operacion
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha).
		Order("created_at ASC").Find(&ops).Error
	return ops, err
}

func (r *operacionRepo) ListByMes(ctx context.Context, mes string) ([]model.Operacion, error) {
	var ops []model.Operacion
	err := r.db.WithContext(ctx).Where("fecha LIKE ?", mes+"%").
		Order("created_at ASC").Find(&ops).Error
	return ops, err
}

func (r *operacionRepo) TotalPorTipo(ctx context.Context, fecha, tipo string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Operacion{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("fecha = ? AND tipo_operacion = ?", fecha, tipo).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *operacionRepo) TotalPorNombre(ctx context.Context, mes, tipo string) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Nombre string
		Total  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Operacion{}).
		Select("nombre, SUM(monto) AS total").
		Where("fecha LIKE ? AND tipo_operacion = ?", mes+"%", tipo).
		Group("nombre").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totales := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totales[row.Nombre] = row.Total
	}
	return totales, nil
}

func (r *operacionRepo) Nombres(ctx context.Context, tipo string) ([]string, error) {
	var nombres []string
	err := r.db.WithContext(ctx).Model(&model.Operacion{}).
		Distinct("nombre").
		Where("tipo_operacion = ? AND nombre <> ''", tipo).
		Order("nombre ASC").
		Pluck("nombre", &nombres).Error
	return nombres, err
}
