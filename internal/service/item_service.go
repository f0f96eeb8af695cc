package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tukyboy007/hospital-back/internal/domain"
	"github.com/Tukyboy007/hospital-back/internal/dto"
	"github.com/Tukyboy007/hospital-back/internal/repository"
)

// ItemService defines the interface for clinic item operations. Items are
// plain storage pass-through; the interesting behavior lives in the
// middleware guarding the routes.
type ItemService interface {
	List(ctx context.Context, ownerID string) ([]*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, ownerID string, req *dto.ItemRequest) (*domain.Item, error)
	Update(ctx context.Context, id string, req *dto.ItemRequest) (*domain.Item, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type itemService struct {
	items repository.ItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(items repository.ItemRepository) ItemService {
	return &itemService{items: items}
}

func (s *itemService) List(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	return s.items.List(ctx, ownerID)
}

func (s *itemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *itemService) Create(ctx context.Context, ownerID string, req *dto.ItemRequest) (*domain.Item, error) {
	now := time.Now()
	item := &domain.Item{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id string, req *dto.ItemRequest) (*domain.Item, error) {
	return s.items.Update(ctx, id, req.Title, req.Description)
}

func (s *itemService) Delete(ctx context.Context, id string) (int64, error) {
	return s.items.Delete(ctx, id)
}
