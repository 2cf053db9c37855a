package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

// ListingListOptions narrows and pages listing queries.
type ListingListOptions struct {
	Limit    int
	Offset   int
	Query    string
	OwnerUID string
	// ExcludeOwnerUID hides a user's own listings from browse results.
	ExcludeOwnerUID string
	// IncludeInactive keeps LOCKED/TRADED/DELETED rows in the result.
	IncludeInactive bool
}

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Listing, error)
	List(ctx context.Context, opts ListingListOptions) ([]model.Listing, int64, error)
	// UpdateIfAvailable applies patch to a single AVAILABLE row and reports
	// how many rows matched.
	UpdateIfAvailable(ctx context.Context, id uint64, patch map[string]interface{}) (int64, error)
	// LockIfAvailable is the atomic AVAILABLE -> LOCKED transition. A zero
	// row count means the listing was not available.
	LockIfAvailable(ctx context.Context, id, proposalID uint64) (int64, error)
	Unlock(ctx context.Context, id uint64) error
	MarkTradedIfLocked(ctx context.Context, id uint64) (int64, error)
	MarkDeletedIfAvailable(ctx context.Context, id uint64) (int64, error)
	WithTx(tx *gorm.DB) ListingRepository
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *model.Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	var l model.Listing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Listing, error) {
	var list []model.Listing
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listingRepository) List(ctx context.Context, opts ListingListOptions) ([]model.Listing, int64, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&model.Listing{})
	if !opts.IncludeInactive {
		q = q.Where("status = ?", model.ListingStatusAvailable)
	} else {
		q = q.Where("status <> ?", model.ListingStatusDeleted)
	}
	if opts.OwnerUID != "" {
		q = q.Where("owner_uid = ?", opts.OwnerUID)
	}
	if opts.ExcludeOwnerUID != "" {
		q = q.Where("owner_uid <> ?", opts.ExcludeOwnerUID)
	}
	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Listing
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *listingRepository) UpdateIfAvailable(ctx context.Context, id uint64, patch map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, model.ListingStatusAvailable).
		Updates(patch)
	return res.RowsAffected, res.Error
}

func (r *listingRepository) LockIfAvailable(ctx context.Context, id, proposalID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, model.ListingStatusAvailable).
		Updates(map[string]interface{}{
			"status":                model.ListingStatusLocked,
			"locked_by_proposal_id": proposalID,
		})
	return res.RowsAffected, res.Error
}

func (r *listingRepository) Unlock(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, model.ListingStatusLocked).
		Updates(map[string]interface{}{
			"status":                model.ListingStatusAvailable,
			"locked_by_proposal_id": nil,
		}).Error
}

func (r *listingRepository) MarkTradedIfLocked(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, model.ListingStatusLocked).
		Update("status", model.ListingStatusTraded)
	return res.RowsAffected, res.Error
}

func (r *listingRepository) MarkDeletedIfAvailable(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, model.ListingStatusAvailable).
		Update("status", model.ListingStatusDeleted)
	return res.RowsAffected, res.Error
}

func (r *listingRepository) WithTx(tx *gorm.DB) ListingRepository {
	return &listingRepository{db: tx}
}
