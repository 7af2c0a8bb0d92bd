package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/folkz/storeadmin/internal/client/models"
)

// ProductService administers catalog products within a store.
type ProductService struct {
	api Doer
}

func NewProductService(api Doer) *ProductService {
	return &ProductService{api: api}
}

func (s *ProductService) List(ctx context.Context, storeID int64, filters models.ProductFilters) ([]models.Product, error) {
	q := storeQuery(storeID)
	if filters.CategoryID != nil {
		q.Set("category_id", strconv.FormatInt(*filters.CategoryID, 10))
	}
	if filters.OnlyAvailable {
		q.Set("only_available", "true")
	}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Skip > 0 {
		q.Set("skip", strconv.Itoa(filters.Skip))
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	q.Set("limit", strconv.Itoa(limit))

	var products []models.Product
	if err := s.api.Get(ctx, "/products/admin", q, &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id, storeID int64) (*models.Product, error) {
	var product models.Product
	if err := s.api.Get(ctx, fmt.Sprintf("/products/admin/%d", id), storeQuery(storeID), &product); err != nil {
		return nil, fmt.Errorf("fetching product %d: %w", id, err)
	}
	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, storeID int64, in models.ProductCreate) (*models.Product, error) {
	in.StoreID = storeID
	var product models.Product
	if err := s.api.Post(ctx, "/products/", nil, in, &product); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id, storeID int64, in models.ProductUpdate) (*models.Product, error) {
	in.StoreID = storeID
	var product models.Product
	if err := s.api.Put(ctx, fmt.Sprintf("/products/%d", id), nil, in, &product); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, id, storeID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/products/%d", id), storeQuery(storeID)); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

// ToggleAvailability flips whether the product can be ordered.
func (s *ProductService) ToggleAvailability(ctx context.Context, id, storeID int64, available bool) (*models.Product, error) {
	q := storeQuery(storeID)
	q.Set("is_available", strconv.FormatBool(available))

	var product models.Product
	if err := s.api.Patch(ctx, fmt.Sprintf("/products/%d/availability", id), q, nil, &product); err != nil {
		return nil, fmt.Errorf("toggling product %d availability: %w", id, err)
	}
	return &product, nil
}

// UpdateStock sets the product's stock level.
func (s *ProductService) UpdateStock(ctx context.Context, id, storeID int64, stock int) (*models.Product, error) {
	q := storeQuery(storeID)
	q.Set("stock", strconv.Itoa(stock))

	var product models.Product
	if err := s.api.Patch(ctx, fmt.Sprintf("/products/%d/stock", id), q, nil, &product); err != nil {
		return nil, fmt.Errorf("updating product %d stock: %w", id, err)
	}
	return &product, nil
}
