// Package fetch provides the generic fetch-with-cache wrapper behind every
// list and detail screen: a time-bounded cache over the local database,
// debounced triggering, exponential-backoff retries and cooperative
// cancellation of superseded fetch cycles.
//
// Concurrency model: each Fetcher instance runs at most one committed fetch
// cycle at a time. Starting cycle N+1 cancels cycle N and invalidates its
// commitment; whatever cycle N eventually resolves to is discarded without
// touching state.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/folkz/storeadmin/internal/client/api"
	"github.com/folkz/storeadmin/internal/client/repositories/fetchcache"
	"github.com/folkz/storeadmin/internal/logging"
)

const (
	defaultTTL       = 30 * time.Second
	defaultDebounce  = 300 * time.Millisecond
	defaultRetryBase = time.Second
	defaultRetryCap  = 10 * time.Second
)

// Config parameterizes a Fetcher.
type Config[T any] struct {
	// Fetch performs the actual request. It must honor ctx cancellation.
	Fetch func(ctx context.Context) (T, error)
	// Key enables the durable cache; nil means live data only.
	Key *Key
	// Cache is the durable cache repository; may be nil for unkeyed use.
	Cache fetchcache.Repository
	// TTL is the freshness window for cached results.
	TTL time.Duration
	// Debounce collapses rapid Trigger calls into one fetch.
	Debounce time.Duration
	// MaxRetries is the number of retries after a failed fetch; 0 disables
	// retrying.
	MaxRetries int
	// RetryBase and RetryCap bound the exponential backoff between retries.
	RetryBase time.Duration
	RetryCap  time.Duration

	Log logging.Logger
}

// State is a snapshot of a fetcher's observable state.
type State[T any] struct {
	Data    T
	HasData bool
	Loading bool
	// Err is the normalized failure message, "" when the last cycle
	// succeeded or none ran yet.
	Err string
	// Retries counts retries scheduled for the current error streak.
	Retries int
	// FromCache marks data served from the durable cache without a request.
	FromCache bool
}

// Fetcher runs fetch cycles and owns their state.
type Fetcher[T any] struct {
	cfg Config[T]
	now func() time.Time

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu       sync.Mutex
	state    State[T]
	gen      uint64
	cancel   context.CancelFunc
	debounce *time.Timer
	subs     []func(State[T])
	closed   bool
}

// New constructs a Fetcher. Close must be called when the owning screen
// goes away to cancel in-flight work, pending retries and debounce timers.
func New[T any](cfg Config[T]) *Fetcher[T] {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaultRetryBase
	}
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = defaultRetryCap
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher[T]{
		cfg:        cfg,
		now:        time.Now,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Subscribe registers fn to be called after every state change.
func (f *Fetcher[T]) Subscribe(fn func(State[T])) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

// Current returns the current state snapshot.
func (f *Fetcher[T]) Current() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Run executes one fetch cycle synchronously: cache-hit short-circuit,
// else fetch with retries. A later cycle supersedes this one; a superseded
// cycle's resolution mutates nothing.
func (f *Fetcher[T]) Run(ctx context.Context) {
	f.run(ctx, false)
}

// Trigger schedules a debounced fetch cycle. Repeated triggers within the
// debounce interval collapse into a single cycle issued after the interval
// elapses, measured from the last trigger.
func (f *Fetcher[T]) Trigger() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(f.cfg.Debounce, func() {
		f.run(f.baseCtx, false)
	})
}

// Refetch evicts the cache entry, resets the retry counter and runs a new
// cycle bypassing the cache-hit short-circuit.
func (f *Fetcher[T]) Refetch(ctx context.Context) {
	if f.cfg.Key != nil && f.cfg.Cache != nil {
		if err := f.cfg.Cache.Delete(ctx, f.cfg.Key.String()); err != nil && f.cfg.Log != nil {
			f.cfg.Log.Warn(ctx, "evicting cache entry", "key", f.cfg.Key.String(), "err", err)
		}
	}
	f.mu.Lock()
	f.state.Retries = 0
	f.mu.Unlock()
	f.run(ctx, true)
}

// Close tears the fetcher down: the in-flight cycle, any pending retry
// backoff and any pending debounce timer are all cancelled.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	f.closed = true
	if f.debounce != nil {
		f.debounce.Stop()
		f.debounce = nil
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()
	f.baseCancel()
}

func (f *Fetcher[T]) run(ctx context.Context, bypassCache bool) {
	cycleCtx, myGen, ok := f.begin(ctx)
	if !ok {
		return
	}

	key := ""
	keyed := f.cfg.Key != nil && f.cfg.Cache != nil
	if keyed {
		key = f.cfg.Key.String()
	}

	if keyed && !bypassCache {
		if entry, err := f.cfg.Cache.Get(cycleCtx, key, f.now()); err == nil && entry != nil {
			var data T
			if json.Unmarshal(entry.Payload, &data) == nil {
				f.commit(myGen, func(s *State[T]) {
					s.Data = data
					s.HasData = true
					s.Loading = false
					s.Err = ""
					s.FromCache = true
				})
				return
			}
		}
	}

	f.commit(myGen, func(s *State[T]) {
		s.Loading = true
		s.Err = ""
	})

	var data T
	attempt := 0
	backoff := retry.WithCappedDuration(f.cfg.RetryCap, retry.NewExponential(f.cfg.RetryBase))
	backoff = retry.WithMaxRetries(uint64(f.cfg.MaxRetries), backoff)

	err := retry.Do(cycleCtx, backoff, func(ctx context.Context) error {
		d, ferr := f.cfg.Fetch(ctx)
		if ferr == nil {
			data = d
			return nil
		}
		if ctx.Err() != nil {
			return ferr
		}
		msg := Normalize(ferr)
		willRetry := attempt < f.cfg.MaxRetries
		f.commit(myGen, func(s *State[T]) {
			s.Err = msg
			if willRetry {
				s.Retries = attempt + 1
			}
		})
		attempt++
		if willRetry {
			if f.cfg.Log != nil {
				f.cfg.Log.Warn(ctx, "fetch failed, retrying",
					"key", key, "attempt", attempt, "err", ferr)
			}
			return retry.RetryableError(ferr)
		}
		return ferr
	})

	if err != nil {
		if cycleCtx.Err() != nil {
			// Superseded or torn down: neither success nor error commits.
			return
		}
		f.commit(myGen, func(s *State[T]) {
			s.Loading = false
		})
		return
	}

	if cycleCtx.Err() != nil {
		return
	}
	if keyed {
		f.writeThrough(cycleCtx, key, data)
	}
	f.commit(myGen, func(s *State[T]) {
		s.Data = data
		s.HasData = true
		s.Loading = false
		s.Err = ""
		s.Retries = 0
		s.FromCache = false
	})
}

// begin opens a new fetch cycle, superseding any cycle still in flight.
func (f *Fetcher[T]) begin(ctx context.Context) (context.Context, uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, 0, false
	}
	f.gen++
	if f.cancel != nil {
		f.cancel()
	}
	cycleCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	return cycleCtx, f.gen, true
}

// commit applies mutate unless the cycle has been superseded or the
// fetcher closed.
func (f *Fetcher[T]) commit(gen uint64, mutate func(*State[T])) {
	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return
	}
	mutate(&f.state)
	state := f.state
	subs := make([]func(State[T]), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

func (f *Fetcher[T]) writeThrough(ctx context.Context, key string, data T) {
	payload, err := json.Marshal(data)
	if err != nil {
		if f.cfg.Log != nil {
			f.cfg.Log.Error(ctx, "marshalling cache payload", "key", key, "err", err)
		}
		return
	}
	entry := &fetchcache.Entry{
		Key:       key,
		Resource:  f.cfg.Key.Resource,
		StoreID:   f.cfg.Key.StoreID,
		Payload:   payload,
		FetchedAt: f.now(),
		TTL:       f.cfg.TTL,
	}
	if err := f.cfg.Cache.Put(ctx, entry); err != nil && f.cfg.Log != nil {
		f.cfg.Log.Warn(ctx, "caching fetch result", "key", key, "err", err)
	}
}

// Normalize reduces a fetch failure to its user-facing message: the
// server-supplied detail when present, else the transport message, else a
// generic fallback.
func Normalize(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "request failed"
}
