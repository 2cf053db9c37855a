package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

type ShipmentRepository interface {
	Create(ctx context.Context, s *model.Shipment) error
	Save(ctx context.Context, s *model.Shipment) error
	FindByID(ctx context.Context, id uint64) (*model.Shipment, error)
	FindBySwapAndSender(ctx context.Context, swapID uint64, senderUID string) (*model.Shipment, error)
	ListBySwap(ctx context.Context, swapID uint64) ([]model.Shipment, error)
	AppendEvent(ctx context.Context, ev *model.ShipmentEvent) error
	SetLastStatus(ctx context.Context, shipmentID uint64, status string) error
	ListEvents(ctx context.Context, shipmentID uint64) ([]model.ShipmentEvent, error)
	WithTx(tx *gorm.DB) ShipmentRepository
}

type shipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) Create(ctx context.Context, s *model.Shipment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shipmentRepository) Save(ctx context.Context, s *model.Shipment) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shipmentRepository) FindByID(ctx context.Context, id uint64) (*model.Shipment, error) {
	var s model.Shipment
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shipmentRepository) FindBySwapAndSender(ctx context.Context, swapID uint64, senderUID string) (*model.Shipment, error) {
	var s model.Shipment
	if err := r.db.WithContext(ctx).
		Where("swap_id = ? AND sender_uid = ?", swapID, senderUID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shipmentRepository) ListBySwap(ctx context.Context, swapID uint64) ([]model.Shipment, error) {
	var list []model.Shipment
	if err := r.db.WithContext(ctx).
		Where("swap_id = ?", swapID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *shipmentRepository) AppendEvent(ctx context.Context, ev *model.ShipmentEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *shipmentRepository) SetLastStatus(ctx context.Context, shipmentID uint64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Shipment{}).
		Where("id = ?", shipmentID).
		Update("last_status", status).Error
}

func (r *shipmentRepository) ListEvents(ctx context.Context, shipmentID uint64) ([]model.ShipmentEvent, error) {
	var list []model.ShipmentEvent
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *shipmentRepository) WithTx(tx *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: tx}
}
