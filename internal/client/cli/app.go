package cli

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/folkz/storeadmin/internal/client/api"
	"github.com/folkz/storeadmin/internal/client/config"
	"github.com/folkz/storeadmin/internal/client/fetch"
	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/services"
	"github.com/folkz/storeadmin/internal/client/session"
	"github.com/folkz/storeadmin/internal/client/storage"
	"github.com/folkz/storeadmin/internal/client/tenant"
	"github.com/folkz/storeadmin/internal/logging"
)

// App holds the wired-up client: services over the API client, the session
// store, the tenant context and the per-screen fetchers.
type App struct {
	config *config.Config
	log    logging.Logger
	repos  *storage.Repositories

	session *session.Store
	tenant  *tenant.Context

	stores     *services.StoreService
	categories *services.CategoryService
	products   *services.ProductService
	users      *services.UserService

	reader *bufio.Reader
	out    io.Writer

	// Fetchers are created lazily when a screen is first visited and torn
	// down when the data they serve goes stale for a structural reason:
	// store-scoped ones on every store switch, all of them on session
	// changes.
	mu           sync.Mutex
	categoryList *fetch.Fetcher[[]models.Category]
	productList  *fetch.Fetcher[[]models.Product]
	storeList    *fetch.Fetcher[[]models.Store]
	userList     *fetch.Fetcher[*models.UserList]
}

// NewApp opens the local database and wires all components together.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	// The API client needs the session's token and the session needs the
	// API client; the late-bound provider breaks the cycle.
	var sess *session.Store
	apiClient := api.New(cfg.APIBaseURL, httpClient, func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	}, log)

	sess = session.NewStore(services.NewAuthService(apiClient), repos.Metadata, log)
	apiClient.OnUnauthorized(sess.ForceSignOut)

	a := &App{
		config:     cfg,
		log:        log,
		repos:      repos,
		session:    sess,
		stores:     services.NewStoreService(apiClient),
		categories: services.NewCategoryService(apiClient),
		products:   services.NewProductService(apiClient),
		users:      services.NewUserService(apiClient),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
	a.tenant = tenant.New(a.stores, repos, log)

	// Every session change re-derives the store selection, and a selection
	// change in turn invalidates the store-scoped fetchers.
	sess.Subscribe(func(st session.State) {
		if st.Loading {
			return
		}
		a.closeAllFetchers()
		if err := a.tenant.Recompute(ctx, st.User); err != nil {
			log.Warn(ctx, "recomputing store selection", "err", err)
		}
	})
	a.tenant.Subscribe(func(tenant.Selection) { a.closeStoreScopedFetchers() })

	return a, nil
}

// Run restores the persisted session and starts the REPL. It blocks until
// the user exits or input reaches EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Initialize(ctx); err != nil {
		a.log.Warn(ctx, "restoring session", "err", err)
	}
	if user := a.session.Current().User; user != nil {
		a.log.Info(ctx, "session restored", "user", user.Email, "role", user.Role)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

// Close tears the application down: fetchers first, then the database.
func (a *App) Close() {
	a.closeAllFetchers()
	if a.repos != nil && a.repos.DB != nil {
		_ = a.repos.DB.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().Authenticated()
}

// status renders the REPL prompt suffix: user and active store, if any.
func (a *App) status() string {
	s := ""
	if user := a.session.Current().User; user != nil {
		s = user.Email
		if sel := a.tenant.Current(); sel.Store != nil {
			s += "@" + sel.Store.Name
		}
	}
	if s != "" {
		s = " (" + s + ")"
	}
	return s
}

func (a *App) closeStoreScopedFetchers() {
	a.mu.Lock()
	cl, pl := a.categoryList, a.productList
	a.categoryList, a.productList = nil, nil
	a.mu.Unlock()

	if cl != nil {
		cl.Close()
	}
	if pl != nil {
		pl.Close()
	}
}

func (a *App) closeAllFetchers() {
	a.closeStoreScopedFetchers()

	a.mu.Lock()
	sl, ul := a.storeList, a.userList
	a.storeList, a.userList = nil, nil
	a.mu.Unlock()

	if sl != nil {
		sl.Close()
	}
	if ul != nil {
		ul.Close()
	}
}
