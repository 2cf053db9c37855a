package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

type ProposalRepository interface {
	// Create persists the proposal together with its items.
	Create(ctx context.Context, p *model.Proposal) error
	FindByID(ctx context.Context, id uint64) (*model.Proposal, error)
	HasPending(ctx context.Context, proposerUID string, listingID uint64) (bool, error)
	// AcceptIfPending / RejectIfPending are conditional PENDING -> terminal
	// transitions; a zero row count means the proposal was already decided.
	AcceptIfPending(ctx context.Context, id uint64) (int64, error)
	RejectIfPending(ctx context.Context, id uint64) (int64, error)
	ListByProposer(ctx context.Context, proposerUID string, limit, offset int) ([]model.Proposal, int64, error)
	ListByReceiver(ctx context.Context, receiverUID string, limit, offset int) ([]model.Proposal, int64, error)
	ListByListing(ctx context.Context, listingID uint64, limit, offset int) ([]model.Proposal, int64, error)
	WithTx(tx *gorm.DB) ProposalRepository
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, p *model.Proposal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proposalRepository) FindByID(ctx context.Context, id uint64) (*model.Proposal, error) {
	var p model.Proposal
	if err := r.db.WithContext(ctx).Preload("Items").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) HasPending(ctx context.Context, proposerUID string, listingID uint64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("proposer_uid = ? AND listing_id = ? AND status = ?", proposerUID, listingID, model.ProposalStatusPending).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *proposalRepository) AcceptIfPending(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("id = ? AND status = ?", id, model.ProposalStatusPending).
		Update("status", model.ProposalStatusAccepted)
	return res.RowsAffected, res.Error
}

func (r *proposalRepository) RejectIfPending(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("id = ? AND status = ?", id, model.ProposalStatusPending).
		Update("status", model.ProposalStatusRejected)
	return res.RowsAffected, res.Error
}

func (r *proposalRepository) ListByProposer(ctx context.Context, proposerUID string, limit, offset int) ([]model.Proposal, int64, error) {
	return r.list(ctx, "proposer_uid = ?", proposerUID, limit, offset)
}

func (r *proposalRepository) ListByReceiver(ctx context.Context, receiverUID string, limit, offset int) ([]model.Proposal, int64, error) {
	return r.list(ctx, "receiver_uid = ?", receiverUID, limit, offset)
}

func (r *proposalRepository) ListByListing(ctx context.Context, listingID uint64, limit, offset int) ([]model.Proposal, int64, error) {
	return r.list(ctx, "listing_id = ?", listingID, limit, offset)
}

func (r *proposalRepository) list(ctx context.Context, cond string, arg interface{}, limit, offset int) ([]model.Proposal, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&model.Proposal{}).Where(cond, arg)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Proposal
	if err := q.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *proposalRepository) WithTx(tx *gorm.DB) ProposalRepository {
	return &proposalRepository{db: tx}
}
