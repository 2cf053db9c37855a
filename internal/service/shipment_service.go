package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/notify"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

// UpsertShipmentInput is the full declared state for one sender's shipment;
// an upsert replaces the previous declaration wholesale.
type UpsertShipmentInput struct {
	DeliveryMethod string
	MeetupLocation *string
	MeetupTime     *time.Time
	MeetupNotes    *string
	PreferredStore *string
	TrackingNumber *string
	TrackingURL    *string
}

type ShipmentService interface {
	UpsertMyShipment(ctx context.Context, swapID uint64, senderUID string, in UpsertShipmentInput) (*model.Shipment, error)
	GetMyShipment(ctx context.Context, swapID uint64, actorUID string) (*model.Shipment, error)
	ListShipments(ctx context.Context, swapID uint64, actorUID string) ([]model.Shipment, error)
	AddEvent(ctx context.Context, shipmentID uint64, actorUID, status string, note *string, occurredAt *time.Time) (*model.ShipmentEvent, error)
	ListEvents(ctx context.Context, shipmentID uint64, actorUID string) ([]model.ShipmentEvent, error)
}

type shipmentService struct {
	db           *gorm.DB
	shipmentRepo repository.ShipmentRepository
	swapRepo     repository.SwapRepository
	notifier     notify.Notifier
	now          func() time.Time
}

func NewShipmentService(db *gorm.DB, shipmentRepo repository.ShipmentRepository, swapRepo repository.SwapRepository, notifier notify.Notifier) ShipmentService {
	return &shipmentService{
		db:           db,
		shipmentRepo: shipmentRepo,
		swapRepo:     swapRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *shipmentService) loadSwapForParticipant(ctx context.Context, swapID uint64, uid string) (*model.Swap, error) {
	sw, err := s.swapRepo.FindByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sw.IsParticipant(uid) {
		return nil, ErrForbidden
	}
	return sw, nil
}

func (s *shipmentService) UpsertMyShipment(ctx context.Context, swapID uint64, senderUID string, in UpsertShipmentInput) (*model.Shipment, error) {
	sw, err := s.loadSwapForParticipant(ctx, swapID, senderUID)
	if err != nil {
		return nil, err
	}

	method, ok := model.ParseDeliveryMethod(in.DeliveryMethod)
	if !ok {
		return nil, ErrBadRequest
	}

	// Fields outside the active method are always null, whatever the
	// request carried.
	if method == model.DeliveryFaceToFace {
		in.PreferredStore = nil
		in.TrackingNumber = nil
		in.TrackingURL = nil
	} else {
		in.MeetupLocation = nil
		in.MeetupTime = nil
		in.MeetupNotes = nil
	}

	var (
		out         *model.Shipment
		trackingSet bool
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipments := s.shipmentRepo.WithTx(tx)

		existing, err := shipments.FindBySwapAndSender(ctx, swapID, senderUID)
		switch {
		case err == nil:
			trackingSet = existing.TrackingNumber == nil && in.TrackingNumber != nil
			existing.DeliveryMethod = method
			existing.MeetupLocation = in.MeetupLocation
			existing.MeetupTime = in.MeetupTime
			existing.MeetupNotes = in.MeetupNotes
			existing.PreferredStore = in.PreferredStore
			existing.TrackingNumber = in.TrackingNumber
			existing.TrackingURL = in.TrackingURL
			if err := shipments.Save(ctx, existing); err != nil {
				return err
			}
			out = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			trackingSet = in.TrackingNumber != nil
			sh := &model.Shipment{
				SwapID:         swapID,
				SenderUID:      senderUID,
				DeliveryMethod: method,
				MeetupLocation: in.MeetupLocation,
				MeetupTime:     in.MeetupTime,
				MeetupNotes:    in.MeetupNotes,
				PreferredStore: in.PreferredStore,
				TrackingNumber: in.TrackingNumber,
				TrackingURL:    in.TrackingURL,
			}
			if err := shipments.Create(ctx, sh); err != nil {
				// A concurrent upsert from the same sender can slip in
				// between the lookup and the insert; the unique
				// (swap, sender) key rejects the loser.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict
				}
				return err
			}
			out = sh
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if trackingSet {
		s.notifier.Emit(ctx, notify.Event{
			Kind:         notify.KindShipmentSent,
			RecipientUID: sw.Counterpart(senderUID),
			EntityType:   "Shipment",
			EntityID:     out.ID,
			Params:       map[string]string{"trackingNumber": *out.TrackingNumber},
		})
	}
	return out, nil
}

func (s *shipmentService) GetMyShipment(ctx context.Context, swapID uint64, actorUID string) (*model.Shipment, error) {
	if _, err := s.loadSwapForParticipant(ctx, swapID, actorUID); err != nil {
		return nil, err
	}
	sh, err := s.shipmentRepo.FindBySwapAndSender(ctx, swapID, actorUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sh, nil
}

func (s *shipmentService) ListShipments(ctx context.Context, swapID uint64, actorUID string) ([]model.Shipment, error) {
	if _, err := s.loadSwapForParticipant(ctx, swapID, actorUID); err != nil {
		return nil, err
	}
	return s.shipmentRepo.ListBySwap(ctx, swapID)
}

func (s *shipmentService) AddEvent(ctx context.Context, shipmentID uint64, actorUID, status string, note *string, occurredAt *time.Time) (*model.ShipmentEvent, error) {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sh.SenderUID != actorUID {
		return nil, ErrForbidden
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrBadRequest
	}

	at := s.now()
	if occurredAt != nil {
		at = *occurredAt
	}

	ev := &model.ShipmentEvent{
		ShipmentID: sh.ID,
		Status:     status,
		Note:       note,
		OccurredAt: at,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shipments := s.shipmentRepo.WithTx(tx)
		if err := shipments.AppendEvent(ctx, ev); err != nil {
			return err
		}
		return shipments.SetLastStatus(ctx, sh.ID, status)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *shipmentService) ListEvents(ctx context.Context, shipmentID uint64, actorUID string) ([]model.ShipmentEvent, error) {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.loadSwapForParticipant(ctx, sh.SwapID, actorUID); err != nil {
		return nil, err
	}
	return s.shipmentRepo.ListEvents(ctx, shipmentID)
}
