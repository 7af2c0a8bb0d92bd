package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/folkz/storeadmin/internal/client/models"
)

// UserService administers platform user accounts.
type UserService struct {
	api Doer
}

func NewUserService(api Doer) *UserService {
	return &UserService{api: api}
}

// UserFilters narrows user listings.
type UserFilters struct {
	Skip    int
	Limit   int
	StoreID *int64
	Role    models.Role
	Search  string
}

func (s *UserService) List(ctx context.Context, filters UserFilters) (*models.UserList, error) {
	q := url.Values{}
	if filters.Skip > 0 {
		q.Set("skip", strconv.Itoa(filters.Skip))
	}
	if filters.Limit > 0 {
		q.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.StoreID != nil {
		q.Set("store_id", strconv.FormatInt(*filters.StoreID, 10))
	}
	if filters.Role != "" {
		q.Set("role", string(filters.Role))
	}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}

	var list models.UserList
	if err := s.api.Get(ctx, "/users/", q, &list); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return &list, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.api.Get(ctx, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, fmt.Errorf("fetching user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var user models.User
	if err := s.api.Post(ctx, "/users/", nil, in, &user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := s.api.Put(ctx, fmt.Sprintf("/users/%d", id), nil, in, &user); err != nil {
		return nil, fmt.Errorf("updating user %d: %w", id, err)
	}
	return &user, nil
}

// Deactivate soft-deletes the account.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/users/%d", id), nil); err != nil {
		return fmt.Errorf("deactivating user %d: %w", id, err)
	}
	return nil
}

func (s *UserService) Activate(ctx context.Context, id int64) error {
	if err := s.api.Post(ctx, fmt.Sprintf("/users/%d/activate", id), nil, nil, nil); err != nil {
		return fmt.Errorf("activating user %d: %w", id, err)
	}
	return nil
}
