// Package session owns the authenticated session: the current user, the
// persisted bearer token and the side effects of signing in and out.
//
// The store is the single source of truth for "who is logged in". It is the
// only writer of the persisted token and user-snapshot keys; other components
// observe the session through Subscribe or read the token via Token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/folkz/storeadmin/internal/client/api"
	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/repositories/metadata"
	"github.com/folkz/storeadmin/internal/logging"
)

// AuthAPI is the slice of the backend the session store talks to.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// Me returns the user record for the current bearer token.
	Me(ctx context.Context) (*models.User, error)
}

// State is an immutable snapshot of the session handed to subscribers.
// Loading is true until the first Initialize resolves.
type State struct {
	User    *models.User
	Loading bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool { return s.User != nil }

// Store owns session state and its persistence.
type Store struct {
	auth AuthAPI
	meta metadata.Repository
	log  logging.Logger
	now  func() time.Time

	mu      sync.Mutex
	user    *models.User
	token   string
	loading bool
	// epoch is bumped on every sign-out. An in-flight resolution started
	// under an older epoch must not commit: a forced sign-out always wins
	// the race against concurrently resolving requests.
	epoch uint64
	subs  []func(State)
}

// NewStore constructs a Store. The store starts in the loading state;
// call Initialize to resolve it.
func NewStore(auth AuthAPI, meta metadata.Repository, log logging.Logger) *Store {
	return &Store{
		auth:    auth,
		meta:    meta,
		log:     log,
		now:     time.Now,
		loading: true,
	}
}

// Subscribe registers fn to be called after every state change with the new
// snapshot. Subscribers are invoked outside the store's lock.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Current returns the current session snapshot.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{User: s.user, Loading: s.loading}
}

// Token returns the current bearer token, or "" when signed out.
// It satisfies api.TokenProvider.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Initialize resolves the persisted session. With no persisted token the
// session ends anonymous. With a token, the backend's /auth/me decides:
// success populates the user (and refreshes the offline snapshot), an
// authorization rejection clears everything, and a transient failure falls
// back to the last persisted snapshot without touching the token. The store
// always leaves the loading state, and calling Initialize again with the
// same persisted token yields the same outcome.
func (s *Store) Initialize(ctx context.Context) error {
	epoch := s.beginLoading()

	raw, err := s.meta.Get(ctx, metadata.KeyToken)
	if err != nil {
		s.commit(epoch, nil, "")
		return err
	}
	token := string(raw)
	if token == "" {
		s.commit(epoch, nil, "")
		return nil
	}

	if expired, exp := tokenExpired(token, s.now()); expired {
		// A JWT whose exp is already past will be rejected anyway;
		// skip the round-trip and treat it as an invalid token.
		s.log.Info(ctx, "persisted token expired, clearing session", "expired_at", exp)
		s.clearPersisted(ctx)
		s.commit(epoch, nil, "")
		return nil
	}

	s.setToken(token)

	user, err := s.auth.Me(ctx)
	switch {
	case err == nil:
		if s.commit(epoch, user, token) {
			s.persistUser(ctx, user)
		}
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		s.log.Info(ctx, "persisted token rejected, clearing session")
		s.clearPersisted(ctx)
		s.commit(epoch, nil, "")
		return nil
	default:
		// Transient failure: a flaky network must not sign out a valid
		// user. Degrade to the last persisted snapshot and keep the token.
		cached := s.storedUser(ctx)
		if cached != nil {
			s.log.Warn(ctx, "session check failed, using cached user snapshot",
				"user", cached.Email, "err", err)
		} else {
			s.log.Warn(ctx, "session check failed and no cached snapshot", "err", err)
		}
		s.commit(epoch, cached, token)
		return nil
	}
}

// SignIn exchanges credentials for a token, persists it, then fetches and
// populates the user. A failed exchange propagates without mutating the
// stored token.
func (s *Store) SignIn(ctx context.Context, username, password string) error {
	epoch := s.beginLoading()

	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.endLoading(epoch)
		return err
	}

	if err := s.meta.Set(ctx, metadata.KeyToken, []byte(token)); err != nil {
		s.endLoading(epoch)
		return err
	}
	s.setToken(token)

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.endLoading(epoch)
		return err
	}

	if s.commit(epoch, user, token) {
		s.persistUser(ctx, user)
		s.log.Info(ctx, "signed in", "user", user.Email, "role", user.Role)
	}
	return nil
}

// SignOut clears the persisted token and user snapshot and resets the
// session. It requires no backend call and is idempotent.
func (s *Store) SignOut(ctx context.Context) {
	s.clearPersisted(ctx)

	s.mu.Lock()
	s.epoch++
	s.user = nil
	s.token = ""
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// ForceSignOut performs the sign-out transition in response to an
// authorization rejection from any request. Register it with the API
// client's OnUnauthorized hook. In-flight requests that resolve after this
// call cannot repopulate the session.
func (s *Store) ForceSignOut() {
	ctx := context.Background()
	s.log.Warn(ctx, "authorization rejected, signing out")
	s.SignOut(ctx)
}

// Refresh re-fetches the user record and replaces the session. Failures are
// logged and leave the existing session untouched.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "session refresh failed", "err", err)
		return
	}
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	s.user = user
	s.mu.Unlock()
	s.persistUser(ctx, user)
	s.notify()
}

func (s *Store) beginLoading() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	return s.epoch
}

func (s *Store) endLoading(epoch uint64) {
	s.mu.Lock()
	if epoch == s.epoch {
		s.loading = false
	}
	s.mu.Unlock()
	s.notify()
}

// commit installs the resolved session unless a sign-out happened since the
// resolution started. It reports whether the session was installed, so that
// callers only persist a user snapshot for a session that actually landed.
func (s *Store) commit(epoch uint64, user *models.User, token string) bool {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return false
	}
	s.user = user
	s.token = token
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *Store) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	state := State{User: s.user, Loading: s.loading}
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

func (s *Store) persistUser(ctx context.Context, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.log.Error(ctx, "marshalling user snapshot", "err", err)
		return
	}
	if err := s.meta.Set(ctx, metadata.KeyUser, data); err != nil {
		s.log.Error(ctx, "persisting user snapshot", "err", err)
	}
}

// storedUser loads the last persisted user snapshot, if any.
func (s *Store) storedUser(ctx context.Context) *models.User {
	raw, err := s.meta.Get(ctx, metadata.KeyUser)
	if err != nil || raw == nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil
	}
	return &user
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.meta.Delete(ctx, metadata.KeyToken); err != nil {
		s.log.Error(ctx, "clearing persisted token", "err", err)
	}
	if err := s.meta.Delete(ctx, metadata.KeyUser); err != nil {
		s.log.Error(ctx, "clearing persisted user snapshot", "err", err)
	}
}
