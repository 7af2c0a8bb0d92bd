// Package services contains typed request builders for the platform REST
// API: one service per entity, thin wrappers that shape paths, query
// parameters and payloads. Store-scoped entities always carry the store id
// so the backend can enforce tenancy.
package services

import (
	"context"
	"net/url"
)

// Doer is the slice of the API client the services use.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, query url.Values, body, out any) error
	Put(ctx context.Context, path string, query url.Values, body, out any) error
	Patch(ctx context.Context, path string, query url.Values, body, out any) error
	Delete(ctx context.Context, path string, query url.Values) error
	PostForm(ctx context.Context, path string, form url.Values, out any) error
}
