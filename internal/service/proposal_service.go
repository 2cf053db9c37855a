package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/notify"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

type ProposalService interface {
	Create(ctx context.Context, proposerUID string, targetListingID uint64, offeredListingIDs []uint64, message string) (*model.Proposal, error)
	// Accept decides a pending proposal, locks every involved listing and
	// opens the swap, all in one transaction.
	Accept(ctx context.Context, proposalID uint64, actorUID string) (*model.Proposal, *model.Swap, error)
	Reject(ctx context.Context, proposalID uint64, actorUID string) (*model.Proposal, error)
	Get(ctx context.Context, proposalID uint64, actorUID string) (*model.Proposal, error)
	ListMine(ctx context.Context, proposerUID string, limit, offset int) ([]model.Proposal, int64, error)
	ListReceived(ctx context.Context, receiverUID string, limit, offset int) ([]model.Proposal, int64, error)
	// ListByListing is restricted to the listing's owner; proposals carry
	// other users' negotiation messages.
	ListByListing(ctx context.Context, listingID uint64, actorUID string, limit, offset int) ([]model.Proposal, int64, error)
}

type proposalService struct {
	db           *gorm.DB
	proposalRepo repository.ProposalRepository
	listingRepo  repository.ListingRepository
	swapRepo     repository.SwapRepository
	notifier     notify.Notifier
}

func NewProposalService(db *gorm.DB, proposalRepo repository.ProposalRepository, listingRepo repository.ListingRepository, swapRepo repository.SwapRepository, notifier notify.Notifier) ProposalService {
	return &proposalService{
		db:           db,
		proposalRepo: proposalRepo,
		listingRepo:  listingRepo,
		swapRepo:     swapRepo,
		notifier:     notifier,
	}
}

func (s *proposalService) Create(ctx context.Context, proposerUID string, targetListingID uint64, offeredListingIDs []uint64, message string) (*model.Proposal, error) {
	if proposerUID == "" || targetListingID == 0 {
		return nil, ErrBadRequest
	}
	if len(offeredListingIDs) == 0 {
		return nil, ErrBadRequest
	}

	target, err := s.listingRepo.FindByID(ctx, targetListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if target.Status == model.ListingStatusDeleted {
		return nil, ErrNotFound
	}
	if target.OwnerUID == proposerUID {
		return nil, ErrForbidden
	}

	seen := make(map[uint64]bool, len(offeredListingIDs))
	for _, id := range offeredListingIDs {
		if seen[id] {
			return nil, ErrBadRequest
		}
		seen[id] = true
	}

	offered, err := s.listingRepo.FindByIDs(ctx, offeredListingIDs)
	if err != nil {
		return nil, err
	}
	if len(offered) != len(offeredListingIDs) {
		return nil, ErrNotFound
	}

	items := make([]model.ProposalItem, 0, len(offered)+1)
	for _, l := range offered {
		if l.OwnerUID != proposerUID {
			return nil, ErrForbidden
		}
		if l.Status != model.ListingStatusAvailable {
			return nil, ErrConflict
		}
		items = append(items, model.ProposalItem{ListingID: l.ID, Side: model.SideOffered})
	}
	items = append(items, model.ProposalItem{ListingID: target.ID, Side: model.SideRequested})

	pending, err := s.proposalRepo.HasPending(ctx, proposerUID, targetListingID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrConflict
	}

	p := &model.Proposal{
		ListingID:   target.ID,
		ProposerUID: proposerUID,
		ReceiverUID: target.OwnerUID,
		Message:     strings.TrimSpace(message),
		Status:      model.ProposalStatusPending,
		Items:       items,
	}
	if err := s.proposalRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, notify.Event{
		Kind:         notify.KindProposalReceived,
		RecipientUID: target.OwnerUID,
		EntityType:   "Proposal",
		EntityID:     p.ID,
		Params:       map[string]string{"listingId": strconv.FormatUint(target.ID, 10)},
	})
	return p, nil
}

func (s *proposalService) Accept(ctx context.Context, proposalID uint64, actorUID string) (*model.Proposal, *model.Swap, error) {
	var (
		prop *model.Proposal
		swap *model.Swap
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposals := s.proposalRepo.WithTx(tx)
		listings := s.listingRepo.WithTx(tx)
		swaps := s.swapRepo.WithTx(tx)

		p, err := proposals.FindByID(ctx, proposalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if p.Status != model.ProposalStatusPending {
			return ErrConflict
		}

		target, err := listings.FindByID(ctx, p.ListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.OwnerUID != actorUID {
			return ErrForbidden
		}

		rows, err := proposals.AcceptIfPending(ctx, p.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConflict
		}

		// Each lock is a conditional AVAILABLE -> LOCKED write; a competing
		// accept that got there first makes the count zero and rolls back
		// everything done so far.
		rows, err = listings.LockIfAvailable(ctx, target.ID, p.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConflict
		}
		for _, item := range p.Items {
			if item.Side != model.SideOffered {
				continue
			}
			rows, err = listings.LockIfAvailable(ctx, item.ListingID, p.ID)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrConflict
			}
		}

		sw := &model.Swap{
			ProposalID: p.ID,
			ListingID:  target.ID,
			AUserUID:   target.OwnerUID,
			BUserUID:   p.ProposerUID,
			Status:     model.SwapStatusInProgress,
		}
		if err := swaps.Create(ctx, sw); err != nil {
			return err
		}

		p.Status = model.ProposalStatusAccepted
		prop = p
		swap = sw
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifier.Emit(ctx, notify.Event{
		Kind:         notify.KindProposalAccepted,
		RecipientUID: prop.ProposerUID,
		EntityType:   "Swap",
		EntityID:     swap.ID,
		Params:       map[string]string{"proposalId": strconv.FormatUint(prop.ID, 10)},
	})
	return prop, swap, nil
}

func (s *proposalService) Reject(ctx context.Context, proposalID uint64, actorUID string) (*model.Proposal, error) {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	target, err := s.listingRepo.FindByID(ctx, p.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if target.OwnerUID != actorUID {
		return nil, ErrForbidden
	}

	rows, err := s.proposalRepo.RejectIfPending(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrConflict
	}
	p.Status = model.ProposalStatusRejected

	s.notifier.Emit(ctx, notify.Event{
		Kind:         notify.KindProposalRejected,
		RecipientUID: p.ProposerUID,
		EntityType:   "Proposal",
		EntityID:     p.ID,
	})
	return p, nil
}

func (s *proposalService) Get(ctx context.Context, proposalID uint64, actorUID string) (*model.Proposal, error) {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.ProposerUID != actorUID && p.ReceiverUID != actorUID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *proposalService) ListMine(ctx context.Context, proposerUID string, limit, offset int) ([]model.Proposal, int64, error) {
	return s.proposalRepo.ListByProposer(ctx, proposerUID, limit, offset)
}

func (s *proposalService) ListReceived(ctx context.Context, receiverUID string, limit, offset int) ([]model.Proposal, int64, error) {
	return s.proposalRepo.ListByReceiver(ctx, receiverUID, limit, offset)
}

func (s *proposalService) ListByListing(ctx context.Context, listingID uint64, actorUID string, limit, offset int) ([]model.Proposal, int64, error) {
	target, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if target.Status == model.ListingStatusDeleted {
		return nil, 0, ErrNotFound
	}
	if target.OwnerUID != actorUID {
		return nil, 0, ErrForbidden
	}
	return s.proposalRepo.ListByListing(ctx, listingID, limit, offset)
}
