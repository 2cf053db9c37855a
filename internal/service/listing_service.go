package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

// ListingPatch carries the owner-editable fields; nil means unchanged.
type ListingPatch struct {
	Title       *string
	Description *string
	ImageURL    *string
}

type ListingService interface {
	Create(ctx context.Context, ownerUID, title, description string, imageURL *string) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	Update(ctx context.Context, id uint64, actorUID string, patch ListingPatch) (*model.Listing, error)
	Delete(ctx context.Context, id uint64, actorUID string) error
	List(ctx context.Context, limit, offset int, query, excludeOwnerUID string) ([]model.Listing, int64, error)
	ListMine(ctx context.Context, ownerUID string, limit, offset int) ([]model.Listing, int64, error)
}

type listingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

func (s *listingService) Create(ctx context.Context, ownerUID, title, description string, imageURL *string) (*model.Listing, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if ownerUID == "" {
		return nil, ErrBadRequest
	}
	if title == "" || len(title) > 150 {
		return nil, ErrBadRequest
	}
	if imageURL != nil && strings.HasPrefix(strings.TrimSpace(*imageURL), "data:") {
		return nil, ErrBadRequest
	}

	l := &model.Listing{
		OwnerUID:    ownerUID,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Status:      model.ListingStatusAvailable,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if l.Status == model.ListingStatusDeleted {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *listingService) Update(ctx context.Context, id uint64, actorUID string, patch ListingPatch) (*model.Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerUID != actorUID {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" || len(t) > 150 {
			return nil, ErrBadRequest
		}
		fields["title"] = t
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if len(fields) == 0 {
		return l, nil
	}

	// Conditional on AVAILABLE: a listing locked or traded in the meantime
	// must not be edited.
	rows, err := s.repo.UpdateIfAvailable(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrConflict
	}
	return s.repo.FindByID(ctx, id)
}

func (s *listingService) Delete(ctx context.Context, id uint64, actorUID string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.OwnerUID != actorUID {
		return ErrForbidden
	}

	rows, err := s.repo.MarkDeletedIfAvailable(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConflict
	}
	return nil
}

func (s *listingService) List(ctx context.Context, limit, offset int, query, excludeOwnerUID string) ([]model.Listing, int64, error) {
	return s.repo.List(ctx, repository.ListingListOptions{
		Limit:           limit,
		Offset:          offset,
		Query:           strings.TrimSpace(query),
		ExcludeOwnerUID: excludeOwnerUID,
	})
}

func (s *listingService) ListMine(ctx context.Context, ownerUID string, limit, offset int) ([]model.Listing, int64, error) {
	if ownerUID == "" {
		return nil, 0, ErrBadRequest
	}
	return s.repo.List(ctx, repository.ListingListOptions{
		Limit:           limit,
		Offset:          offset,
		OwnerUID:        ownerUID,
		IncludeInactive: true,
	})
}
