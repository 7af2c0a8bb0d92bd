// Package tenant tracks which store's data the session is currently
// administering. The selection is derived from the authenticated user's
// role: single-store roles are pinned to their profile's store, multi-store
// roles may switch among the stores the backend lets them see, and the last
// choice survives restarts through the local metadata store.
//
// The tenant context is the only writer of the persisted store-id key.
package tenant

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/repositories/metadata"
	"github.com/folkz/storeadmin/internal/client/storage"
	"github.com/folkz/storeadmin/internal/logging"
)

var (
	// ErrNotAllowed is returned when a single-store role tries to switch stores.
	ErrNotAllowed = errors.New("role cannot manage multiple stores")
	// ErrUnknownStore is returned when the requested store is not among the
	// stores this session may administer.
	ErrUnknownStore = errors.New("store not available to this session")
)

// StoresAPI lists the stores the caller may select among.
type StoresAPI interface {
	List(ctx context.Context) ([]models.Store, error)
}

// Selection is an immutable snapshot of the tenant state.
type Selection struct {
	// Store is the currently administered store, nil when none is selected.
	Store *models.Store
	// Stores are the stores this session may administer.
	Stores []models.Store
	// CanSwitch reports whether the session's role may change the selection.
	CanSwitch bool
}

// StoreID returns the selected store id, or 0 when none is selected.
func (s Selection) StoreID() int64 {
	if s.Store == nil {
		return 0
	}
	return s.Store.ID
}

// Context owns the current store selection.
type Context struct {
	stores StoresAPI
	repos  *storage.Repositories
	log    logging.Logger

	mu        sync.Mutex
	current   *models.Store
	available []models.Store
	canSwitch bool
	subs      []func(Selection)
}

func New(stores StoresAPI, repos *storage.Repositories, log logging.Logger) *Context {
	return &Context{stores: stores, repos: repos, log: log}
}

// Subscribe registers fn to be called after every selection change.
func (c *Context) Subscribe(fn func(Selection)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Current returns the current selection snapshot.
func (c *Context) Current() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// CanManageMultipleStores reports whether the user's role permits switching
// the active store. Pure predicate; nil users cannot.
func CanManageMultipleStores(user *models.User) bool {
	return user != nil && user.Role.Capabilities().ManageMultipleStores
}

// Recompute derives the selection for the given session user. It must be
// invoked on every session change: sign-in, sign-out and rehydration.
//
// A nil user clears the selection, the persisted store id and all cached
// fetch results. A single-store role is pinned to its profile store,
// overriding whatever was persisted. A multi-store role keeps its persisted
// choice when it is still among the selectable stores, and otherwise falls
// back to the first selectable store.
func (c *Context) Recompute(ctx context.Context, user *models.User) error {
	if user == nil {
		if err := c.repos.InTx(ctx, func(tx storage.Repositories) error {
			if err := tx.Metadata.Delete(ctx, metadata.KeyCurrentStoreID); err != nil {
				return err
			}
			return tx.Cache.Clear(ctx)
		}); err != nil {
			c.log.Error(ctx, "clearing tenant selection", "err", err)
		}
		c.install(nil, nil, false)
		return nil
	}

	list, err := c.stores.List(ctx)
	if err != nil {
		c.log.Warn(ctx, "loading selectable stores failed", "err", err)
		return err
	}

	canSwitch := CanManageMultipleStores(user)
	if !canSwitch {
		// The role constraint always wins over any stale persisted value.
		var pinned *models.Store
		if user.StoreID != nil {
			pinned = findStore(list, *user.StoreID)
			if pinned == nil {
				pinned = &models.Store{ID: *user.StoreID}
			}
		}
		c.persistSelection(ctx, pinned)
		c.install(pinned, list, false)
		return nil
	}

	selected := c.persistedStore(ctx, list)
	if selected == nil && len(list) > 0 {
		selected = &list[0]
	}
	c.persistSelection(ctx, selected)
	c.install(selected, list, true)
	return nil
}

// Select switches the active store. Only multi-store roles may call it; the
// store must be among the selectable set. The new id is persisted and every
// cached fetch result scoped to the previous store is invalidated, in one
// transaction.
func (c *Context) Select(ctx context.Context, storeID int64) error {
	c.mu.Lock()
	if !c.canSwitch {
		c.mu.Unlock()
		return ErrNotAllowed
	}
	target := findStore(c.available, storeID)
	if target == nil {
		c.mu.Unlock()
		return ErrUnknownStore
	}
	previous := c.current
	c.mu.Unlock()

	err := c.repos.InTx(ctx, func(tx storage.Repositories) error {
		if err := tx.Metadata.Set(ctx, metadata.KeyCurrentStoreID,
			[]byte(strconv.FormatInt(storeID, 10))); err != nil {
			return err
		}
		if previous != nil && previous.ID != storeID {
			return tx.Cache.DeleteByStore(ctx, previous.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()
	c.notify()
	c.log.Info(ctx, "switched active store", "store", target.Name, "id", target.ID)
	return nil
}

func (c *Context) install(current *models.Store, available []models.Store, canSwitch bool) {
	c.mu.Lock()
	c.current = current
	c.available = available
	c.canSwitch = canSwitch
	c.mu.Unlock()
	c.notify()
}

func (c *Context) snapshotLocked() Selection {
	return Selection{Store: c.current, Stores: c.available, CanSwitch: c.canSwitch}
}

func (c *Context) notify() {
	c.mu.Lock()
	state := c.snapshotLocked()
	subs := make([]func(Selection), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

// persistedStore resolves the persisted store id against the selectable
// list; a stale or unparsable value is treated as absent.
func (c *Context) persistedStore(ctx context.Context, list []models.Store) *models.Store {
	raw, err := c.repos.Metadata.Get(ctx, metadata.KeyCurrentStoreID)
	if err != nil || raw == nil {
		return nil
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil
	}
	return findStore(list, id)
}

func (c *Context) persistSelection(ctx context.Context, store *models.Store) {
	var err error
	if store == nil {
		err = c.repos.Metadata.Delete(ctx, metadata.KeyCurrentStoreID)
	} else {
		err = c.repos.Metadata.Set(ctx, metadata.KeyCurrentStoreID,
			[]byte(strconv.FormatInt(store.ID, 10)))
	}
	if err != nil {
		c.log.Error(ctx, "persisting tenant selection", "err", err)
	}
}

func findStore(list []models.Store, id int64) *models.Store {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
