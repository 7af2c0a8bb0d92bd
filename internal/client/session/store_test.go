package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/folkz/storeadmin/internal/client/api"
	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/repositories/metadata"
	"github.com/folkz/storeadmin/internal/logging"
)

// ---- helpers ----

func setupMeta(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return metadata.NewSQLiteRepository(db)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testUser() *models.User {
	storeID := int64(7)
	return &models.User{
		ID:       1,
		Email:    "admin@example.com",
		FullName: "Admin",
		Role:     models.RoleCompanyAdmin,
		StoreID:  &storeID,
		IsActive: true,
	}
}

// ---- fake auth API ----

type fakeAuth struct {
	mu sync.Mutex

	LoginRet string
	LoginErr error

	MeRet *models.User
	MeErr error

	// MeEntered is closed-signalled once per Me call; MeBlock, when set,
	// delays Me's return until released.
	MeEntered chan struct{}
	MeBlock   chan struct{}

	LoginCalls int
	MeCalls    int

	LastLoginUser string
	LastLoginPass string
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastLoginUser = username
	f.LastLoginPass = password
	ret, err := f.LoginRet, f.LoginErr
	f.mu.Unlock()
	return ret, err
}

func (f *fakeAuth) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.MeCalls++
	entered, block := f.MeEntered, f.MeBlock
	ret, err := f.MeRet, f.MeErr
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return ret, err
}

func (f *fakeAuth) meCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MeCalls
}

func getMeta(t *testing.T, repo metadata.Repository, key string) []byte {
	t.Helper()
	v, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ---- tests ----

func TestInitialize_NoToken_EndsAnonymous(t *testing.T) {
	meta := setupMeta(t)
	auth := &fakeAuth{}
	s := NewStore(auth, meta, testLogger())

	require.True(t, s.Current().Loading, "store starts loading")

	require.NoError(t, s.Initialize(context.Background()))

	state := s.Current()
	assert.Nil(t, state.User)
	assert.False(t, state.Loading)
	assert.Zero(t, auth.meCalls(), "no token means no session check")
}

func TestInitialize_ValidToken_PopulatesUserAndSnapshot(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))

	auth := &fakeAuth{MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.Initialize(ctx))

	state := s.Current()
	require.NotNil(t, state.User)
	assert.Equal(t, "admin@example.com", state.User.Email)
	assert.False(t, state.Loading)
	assert.Equal(t, "tok-1", s.Token())

	var snap models.User
	require.NoError(t, json.Unmarshal(getMeta(t, meta, metadata.KeyUser), &snap))
	assert.Equal(t, "admin@example.com", snap.Email)
}

func TestInitialize_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))

	auth := &fakeAuth{MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.Initialize(ctx))
	first := s.Current()

	require.NoError(t, s.Initialize(ctx))
	second := s.Current()

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.False(t, second.Loading)
	assert.Equal(t, "tok-1", string(getMeta(t, meta, metadata.KeyToken)))
}

func TestInitialize_RejectedToken_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("stale")))
	require.NoError(t, meta.Set(ctx, metadata.KeyUser, []byte(`{"id":1}`)))

	auth := &fakeAuth{MeErr: &api.Error{Status: 401, Detail: "token expired"}}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.Initialize(ctx))

	state := s.Current()
	assert.Nil(t, state.User)
	assert.False(t, state.Loading)
	assert.Empty(t, s.Token())
	assert.Nil(t, getMeta(t, meta, metadata.KeyToken))
	assert.Nil(t, getMeta(t, meta, metadata.KeyUser))
}

func TestInitialize_TransientFailure_FallsBackToSnapshot(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))
	snap, err := json.Marshal(testUser())
	require.NoError(t, err)
	require.NoError(t, meta.Set(ctx, metadata.KeyUser, snap))

	auth := &fakeAuth{MeErr: api.ErrUnavailable}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.Initialize(ctx))

	state := s.Current()
	require.NotNil(t, state.User, "network failure degrades to the cached user")
	assert.Equal(t, "admin@example.com", state.User.Email)
	assert.Equal(t, "tok-1", s.Token(), "token survives a transient failure")
	assert.Equal(t, "tok-1", string(getMeta(t, meta, metadata.KeyToken)))
}

func TestInitialize_TransientFailure_NoSnapshot_EndsAnonymousButKeepsToken(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))

	auth := &fakeAuth{MeErr: errors.New("connection reset")}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.Initialize(ctx))

	assert.Nil(t, s.Current().User)
	assert.Equal(t, "tok-1", string(getMeta(t, meta, metadata.KeyToken)))
}

func TestInitialize_ExpiredJWT_ClearsWithoutNetworkCall(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)

	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte(token)))

	auth := &fakeAuth{MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.Initialize(ctx))

	assert.Nil(t, s.Current().User)
	assert.Zero(t, auth.meCalls(), "expired token is cleared locally")
	assert.Nil(t, getMeta(t, meta, metadata.KeyToken))
}

func TestSignIn_Success_PersistsTokenAndUser(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	auth := &fakeAuth{LoginRet: "tok-new", MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.SignIn(ctx, "admin@example.com", "hunter2"))

	assert.Equal(t, "admin@example.com", auth.LastLoginUser)
	assert.Equal(t, "hunter2", auth.LastLoginPass)
	assert.Equal(t, "tok-new", s.Token())
	require.NotNil(t, s.Current().User)
	assert.Equal(t, "tok-new", string(getMeta(t, meta, metadata.KeyToken)))
}

func TestSignIn_BadCredentials_LeavesTokenUntouched(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	auth := &fakeAuth{LoginErr: &api.Error{Status: 401, Detail: "incorrect username or password"}}
	s := NewStore(auth, meta, testLogger())

	err := s.SignIn(ctx, "admin@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect username or password")

	assert.Nil(t, s.Current().User)
	assert.False(t, s.Current().Loading)
	assert.Nil(t, getMeta(t, meta, metadata.KeyToken))
}

func TestSignInSignOut_RoundTrip_SignOutIdempotent(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	auth := &fakeAuth{LoginRet: "tok-new", MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())

	require.NoError(t, s.SignIn(ctx, "admin@example.com", "hunter2"))
	require.NotNil(t, s.Current().User)
	require.NotEmpty(t, getMeta(t, meta, metadata.KeyToken))

	s.SignOut(ctx)
	assert.Nil(t, s.Current().User)
	assert.Empty(t, s.Token())
	assert.Nil(t, getMeta(t, meta, metadata.KeyToken))
	assert.Nil(t, getMeta(t, meta, metadata.KeyUser))

	s.SignOut(ctx)
	assert.Nil(t, s.Current().User)
	assert.Nil(t, getMeta(t, meta, metadata.KeyToken))
}

func TestForceSignOut_WinsRaceAgainstInFlightResolution(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))

	auth := &fakeAuth{
		MeRet:     testUser(),
		MeEntered: make(chan struct{}, 1),
		MeBlock:   make(chan struct{}),
	}
	s := NewStore(auth, meta, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Initialize(ctx)
	}()

	<-auth.MeEntered // the session check is in flight
	s.ForceSignOut() // a 401 elsewhere forces the sign-out transition
	close(auth.MeBlock)
	<-done

	state := s.Current()
	assert.Nil(t, state.User, "late success must not repopulate the session")
	assert.False(t, state.Loading)
	assert.Empty(t, s.Token())
	assert.Nil(t, getMeta(t, meta, metadata.KeyUser), "late success must not rewrite the user snapshot")
	assert.Nil(t, getMeta(t, meta, metadata.KeyToken))
}

func TestForceSignOut_DuringRefresh_LeavesNoSnapshot(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	auth := &fakeAuth{LoginRet: "tok-1", MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())
	require.NoError(t, s.SignIn(ctx, "admin@example.com", "pw"))

	auth.mu.Lock()
	auth.MeEntered = make(chan struct{}, 1)
	auth.MeBlock = make(chan struct{})
	auth.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Refresh(ctx)
	}()

	<-auth.MeEntered
	s.ForceSignOut()
	close(auth.MeBlock)
	<-done

	assert.Nil(t, s.Current().User)
	assert.Nil(t, getMeta(t, meta, metadata.KeyUser), "late refresh must not rewrite the user snapshot")
}

func TestRefresh_FailureKeepsExistingSession(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))
	auth := &fakeAuth{MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())
	require.NoError(t, s.Initialize(ctx))

	auth.mu.Lock()
	auth.MeErr = api.ErrUnavailable
	auth.MeRet = nil
	auth.mu.Unlock()

	s.Refresh(ctx)

	require.NotNil(t, s.Current().User, "best-effort refresh keeps the session")
	assert.Equal(t, "admin@example.com", s.Current().User.Email)
}

func TestRefresh_Success_ReplacesUser(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	require.NoError(t, meta.Set(ctx, metadata.KeyToken, []byte("tok-1")))
	auth := &fakeAuth{MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())
	require.NoError(t, s.Initialize(ctx))

	updated := testUser()
	updated.FullName = "Renamed Admin"
	auth.mu.Lock()
	auth.MeRet = updated
	auth.mu.Unlock()

	s.Refresh(ctx)

	assert.Equal(t, "Renamed Admin", s.Current().User.FullName)
}

func TestSubscribe_NotifiedOnTransitions(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	auth := &fakeAuth{LoginRet: "tok", MeRet: testUser()}
	s := NewStore(auth, meta, testLogger())

	var mu sync.Mutex
	var states []State
	s.Subscribe(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	require.NoError(t, s.SignIn(ctx, "a", "b"))
	s.SignOut(ctx)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	assert.True(t, states[len(states)-2].Authenticated(), "sign-in notified")
	assert.False(t, states[len(states)-1].Authenticated(), "sign-out notified")
}
