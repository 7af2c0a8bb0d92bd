package services

import (
	"context"
	"fmt"

	"github.com/folkz/storeadmin/internal/client/models"
)

// StoreService administers tenant stores.
type StoreService struct {
	api Doer
}

func NewStoreService(api Doer) *StoreService {
	return &StoreService{api: api}
}

// List returns the stores the caller may select among.
func (s *StoreService) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := s.api.Get(ctx, "/stores/", nil, &stores); err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	return stores, nil
}

func (s *StoreService) Get(ctx context.Context, id int64) (*models.Store, error) {
	var store models.Store
	if err := s.api.Get(ctx, fmt.Sprintf("/stores/%d", id), nil, &store); err != nil {
		return nil, fmt.Errorf("fetching store %d: %w", id, err)
	}
	return &store, nil
}

func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	if err := s.api.Get(ctx, "/stores/slug/"+slug, nil, &store); err != nil {
		return nil, fmt.Errorf("fetching store %q: %w", slug, err)
	}
	return &store, nil
}

func (s *StoreService) Create(ctx context.Context, in models.StoreCreate) (*models.Store, error) {
	var store models.Store
	if err := s.api.Post(ctx, "/stores/", nil, in, &store); err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return &store, nil
}

func (s *StoreService) Update(ctx context.Context, id int64, in models.StoreUpdate) (*models.Store, error) {
	var store models.Store
	if err := s.api.Patch(ctx, fmt.Sprintf("/stores/%d", id), nil, in, &store); err != nil {
		return nil, fmt.Errorf("updating store %d: %w", id, err)
	}
	return &store, nil
}

// Delete soft-deletes the store.
func (s *StoreService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/stores/%d", id), nil); err != nil {
		return fmt.Errorf("deleting store %d: %w", id, err)
	}
	return nil
}
