package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

// SwapSide selects which participant's confirmation column an update targets.
type SwapSide string

const (
	SwapSideA SwapSide = "a"
	SwapSideB SwapSide = "b"
)

type SwapRepository interface {
	Create(ctx context.Context, s *model.Swap) error
	FindByID(ctx context.Context, id uint64) (*model.Swap, error)
	ListByParticipant(ctx context.Context, uid string, limit, offset int) ([]model.Swap, int64, error)
	// ConfirmSideIfNull sets the side's confirmed-at only when it is still
	// null, so repeated confirmations never move the first timestamp.
	ConfirmSideIfNull(ctx context.Context, id uint64, side SwapSide, at time.Time) (int64, error)
	// CompleteIfBothConfirmed performs the single IN_PROGRESS -> COMPLETED
	// transition; at most one caller ever sees a non-zero row count.
	CompleteIfBothConfirmed(ctx context.Context, id uint64, at time.Time) (int64, error)
	WithTx(tx *gorm.DB) SwapRepository
}

type swapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

func (r *swapRepository) Create(ctx context.Context, s *model.Swap) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *swapRepository) FindByID(ctx context.Context, id uint64) (*model.Swap, error) {
	var s model.Swap
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *swapRepository) ListByParticipant(ctx context.Context, uid string, limit, offset int) ([]model.Swap, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&model.Swap{}).
		Where("a_user_uid = ? OR b_user_uid = ?", uid, uid)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Swap
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *swapRepository) ConfirmSideIfNull(ctx context.Context, id uint64, side SwapSide, at time.Time) (int64, error) {
	col := "a_confirmed_at"
	if side == SwapSideB {
		col = "b_confirmed_at"
	}
	res := r.db.WithContext(ctx).
		Model(&model.Swap{}).
		Where(fmt.Sprintf("id = ? AND %s IS NULL", col), id).
		Update(col, at)
	return res.RowsAffected, res.Error
}

func (r *swapRepository) CompleteIfBothConfirmed(ctx context.Context, id uint64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Swap{}).
		Where("id = ? AND status = ? AND a_confirmed_at IS NOT NULL AND b_confirmed_at IS NOT NULL",
			id, model.SwapStatusInProgress).
		Updates(map[string]interface{}{
			"status":       model.SwapStatusCompleted,
			"completed_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *swapRepository) WithTx(tx *gorm.DB) SwapRepository {
	return &swapRepository{db: tx}
}
