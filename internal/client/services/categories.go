package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/folkz/storeadmin/internal/client/models"
)

// CategoryService administers product categories within a store.
type CategoryService struct {
	api Doer
}

func NewCategoryService(api Doer) *CategoryService {
	return &CategoryService{api: api}
}

func storeQuery(storeID int64) url.Values {
	q := url.Values{}
	q.Set("store_id", strconv.FormatInt(storeID, 10))
	return q
}

func (s *CategoryService) List(ctx context.Context, storeID int64) ([]models.Category, error) {
	var categories []models.Category
	if err := s.api.Get(ctx, "/categories/", storeQuery(storeID), &categories); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id, storeID int64) (*models.Category, error) {
	var category models.Category
	if err := s.api.Get(ctx, fmt.Sprintf("/categories/%d", id), storeQuery(storeID), &category); err != nil {
		return nil, fmt.Errorf("fetching category %d: %w", id, err)
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, storeID int64, in models.CategoryCreate) (*models.Category, error) {
	var category models.Category
	if err := s.api.Post(ctx, "/categories/", storeQuery(storeID), in, &category); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id, storeID int64, in models.CategoryUpdate) (*models.Category, error) {
	var category models.Category
	if err := s.api.Put(ctx, fmt.Sprintf("/categories/%d", id), storeQuery(storeID), in, &category); err != nil {
		return nil, fmt.Errorf("updating category %d: %w", id, err)
	}
	return &category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id, storeID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/categories/%d", id), storeQuery(storeID)); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}
