package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folkz/storeadmin/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), func() string { return token }, discardLogger())
}

func TestGet_AttachesAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotAccept = r.Header.Get("Accept")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}, "tok123")

	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/ping", nil, &out))

	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request carries a correlation id")
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "yes", out["ok"])
}

func TestGet_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "")

	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/ping", nil, &out))
	assert.Empty(t, gotAuth)
}

func TestGet_QueryParameters(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}, "tok")

	q := url.Values{}
	q.Set("store_id", "3")
	var out []int
	require.NoError(t, c.Get(context.Background(), "/categories/", q, &out))
	assert.Equal(t, "3", gotQuery.Get("store_id"))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		detail   string
	}{
		{"unauthorized", 401, `{"detail":"Could not validate credentials"}`, ErrUnauthorized, "Could not validate credentials"},
		{"not found", 404, `{"detail":"Store not found"}`, ErrNotFound, "Store not found"},
		{"validation", 422, `{"detail":"name is required"}`, nil, "name is required"},
		{"opaque body", 500, `boom`, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "tok")

			err := c.Get(context.Background(), "/x", nil, nil)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestUnauthorizedHookFires(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "stale")

	fired := 0
	c.OnUnauthorized(func() { fired++ })

	_ = c.Get(context.Background(), "/auth/me", nil, nil)
	assert.Equal(t, 1, fired)

	_ = c.Post(context.Background(), "/stores/", nil, nil, nil)
	assert.Equal(t, 2, fired, "the hook fires for every rejected request")
}

func TestUnauthorizedHookNotFiredForOtherStatuses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, "tok")

	fired := false
	c.OnUnauthorized(func() { fired = true })
	_ = c.Get(context.Background(), "/users/", nil, nil)
	assert.False(t, fired)
}

func TestPostForm_SkipsUnauthorizedHook(t *testing.T) {
	var gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}, "")

	fired := false
	c.OnUnauthorized(func() { fired = true })

	form := url.Values{}
	form.Set("username", "a@b.c")
	form.Set("password", "nope")
	err := c.PostForm(context.Background(), "/auth/login", form, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, fired, "bad credentials are not a revoked session")
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestPost_SendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":1}`))
	}, "tok")

	var out map[string]int
	err := c.Post(context.Background(), "/categories/", nil, map[string]string{"name": "Drinks"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Drinks", gotBody["name"])
	assert.Equal(t, 1, out["id"])
}

func TestTransportFailureMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := New(srv.URL, nil, func() string { return "" }, discardLogger())
	err := c.Get(context.Background(), "/ping", nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestContextCancellationPassesThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, "tok")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/slow", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestDelete_NoBodyExpected(t *testing.T) {
	var gotMethod string
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	require.NoError(t, c.Delete(context.Background(), "/products/1", url.Values{"store_id": {"7"}}))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "7", gotQuery.Get("store_id"))
}
