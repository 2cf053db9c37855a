package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/notify"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

// ChatSignaler freezes the chat room attached to a completed swap. The
// implementation must be best-effort; it is called after the completing
// transaction has committed.
type ChatSignaler interface {
	SetReadOnly(ctx context.Context, swapID uint64)
}

type SwapService interface {
	Get(ctx context.Context, swapID uint64, actorUID string) (*model.Swap, error)
	ListMine(ctx context.Context, uid string, limit, offset int) ([]model.Swap, int64, error)
	// ConfirmReceived records the caller's receipt confirmation. Repeat calls
	// by an already-confirmed participant change nothing. The second
	// participant's confirmation completes the swap and marks every involved
	// listing TRADED in the same transaction.
	ConfirmReceived(ctx context.Context, swapID uint64, actorUID string) (*model.Swap, error)
}

type swapService struct {
	db           *gorm.DB
	swapRepo     repository.SwapRepository
	proposalRepo repository.ProposalRepository
	listingRepo  repository.ListingRepository
	chat         ChatSignaler
	notifier     notify.Notifier
	now          func() time.Time
}

func NewSwapService(db *gorm.DB, swapRepo repository.SwapRepository, proposalRepo repository.ProposalRepository, listingRepo repository.ListingRepository, chat ChatSignaler, notifier notify.Notifier) SwapService {
	return &swapService{
		db:           db,
		swapRepo:     swapRepo,
		proposalRepo: proposalRepo,
		listingRepo:  listingRepo,
		chat:         chat,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *swapService) Get(ctx context.Context, swapID uint64, actorUID string) (*model.Swap, error) {
	sw, err := s.swapRepo.FindByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sw.IsParticipant(actorUID) {
		return nil, ErrForbidden
	}
	return sw, nil
}

func (s *swapService) ListMine(ctx context.Context, uid string, limit, offset int) ([]model.Swap, int64, error) {
	return s.swapRepo.ListByParticipant(ctx, uid, limit, offset)
}

func (s *swapService) ConfirmReceived(ctx context.Context, swapID uint64, actorUID string) (*model.Swap, error) {
	var (
		out       *model.Swap
		completed bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swaps := s.swapRepo.WithTx(tx)
		listings := s.listingRepo.WithTx(tx)
		proposals := s.proposalRepo.WithTx(tx)

		sw, err := swaps.FindByID(ctx, swapID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !sw.IsParticipant(actorUID) {
			return ErrForbidden
		}

		side := repository.SwapSideA
		if actorUID == sw.BUserUID {
			side = repository.SwapSideB
		}

		// Null-guarded write: a zero row count means this side already
		// confirmed and the original timestamp stands.
		if _, err := swaps.ConfirmSideIfNull(ctx, sw.ID, side, s.now()); err != nil {
			return err
		}

		// At most one confirmation call ever wins this transition.
		rows, err := swaps.CompleteIfBothConfirmed(ctx, sw.ID, s.now())
		if err != nil {
			return err
		}
		if rows == 1 {
			completed = true
			p, err := proposals.FindByID(ctx, sw.ProposalID)
			if err != nil {
				return err
			}
			if _, err := listings.MarkTradedIfLocked(ctx, sw.ListingID); err != nil {
				return err
			}
			for _, item := range p.Items {
				if item.Side != model.SideOffered {
					continue
				}
				if _, err := listings.MarkTradedIfLocked(ctx, item.ListingID); err != nil {
					return err
				}
			}
		}

		out, err = swaps.FindByID(ctx, sw.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.chat.SetReadOnly(ctx, out.ID)
		for _, uid := range []string{out.AUserUID, out.BUserUID} {
			s.notifier.Emit(ctx, notify.Event{
				Kind:         notify.KindSwapCompleted,
				RecipientUID: uid,
				EntityType:   "Swap",
				EntityID:     out.ID,
			})
		}
	}
	return out, nil
}
