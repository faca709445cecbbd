package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/model"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	Update(ctx context.Context, t *model.Turno) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	ListByFecha(ctx context.Context, fecha string) ([]model.Turno, error)
	ListByMes(ctx context.Context, mes string) ([]model.Turno, error)
	// ListDesde lists bookings from a date onward (upcoming view).
	ListDesde(ctx context.Context, desde string) ([]model.Turno, error)
	// OcupacionPorFecha suma comensales por franja horaria para una fecha.
	OcupacionPorFecha(ctx context.Context, fecha string) (map[string]int, error)
	// DescontarCobrado reduces the collected amount on a turno after one of
	// its sales is reversed with a credit note.
	DescontarCobrado(ctx context.Context, tx *gorm.DB, id uuid.UUID, monto decimal.Decimal) error
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Turno{}, id).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) ListByFecha(ctx context.Context, fecha string) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha).
		Order("created_at ASC").Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) ListByMes(ctx context.Context, mes string) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Where("fecha LIKE ?", mes+"%").
		Order("fecha ASC, created_at ASC").Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) ListDesde(ctx context.Context, desde string) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Where("fecha >= ?", desde).
		Order("fecha ASC, turno ASC, created_at ASC").Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) OcupacionPorFecha(ctx context.Context, fecha string) (map[string]int, error) {
	var rows []struct {
		Turno string
		Total int
	}
	err := r.db.WithContext(ctx).Model(&model.Turno{}).
		Select("turno, SUM(cantidad) AS total").
		Where("fecha = ?", fecha).
		Group("turno").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ocupacion := make(map[string]int, len(rows))
	for _, row := range rows {
		ocupacion[row.Turno] = row.Total
	}
	return ocupacion, nil
}

func (r *turnoRepo) DescontarCobrado(ctx context.Context, tx *gorm.DB, id uuid.UUID, monto decimal.Decimal) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Model(&model.Turno{}).Where("id = ?", id).
		Update("cobrado", gorm.Expr("cobrado - ?", monto)).Error
}
