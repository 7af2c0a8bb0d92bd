package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/folkz/storeadmin/internal/client/fetch"
	"github.com/folkz/storeadmin/internal/client/models"
)

func (a *App) categoryFetcher(storeID int64) *fetch.Fetcher[[]models.Category] {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.categoryList == nil {
		a.categoryList = fetch.New(fetch.Config[[]models.Category]{
			Fetch: func(ctx context.Context) ([]models.Category, error) {
				return a.categories.List(ctx, storeID)
			},
			Key:   &fetch.Key{Resource: "categories", StoreID: storeID},
			Cache: a.repos.Cache,
			// Categories change rarely; they stay fresh twice as long.
			TTL:        2 * a.config.CacheTTL,
			Debounce:   a.config.DebounceInterval,
			MaxRetries: a.config.MaxRetries,
			Log:        a.log,
		})
	}
	return a.categoryList
}

func (a *App) productFetcher(storeID int64) *fetch.Fetcher[[]models.Product] {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.productList == nil {
		a.productList = fetch.New(fetch.Config[[]models.Product]{
			Fetch: func(ctx context.Context) ([]models.Product, error) {
				return a.products.List(ctx, storeID, models.ProductFilters{})
			},
			Key:        &fetch.Key{Resource: "products", StoreID: storeID},
			Cache:      a.repos.Cache,
			TTL:        a.config.CacheTTL,
			Debounce:   a.config.DebounceInterval,
			MaxRetries: a.config.MaxRetries,
			Log:        a.log,
		})
	}
	return a.productList
}

// Categories lists the active store's categories.
func (a *App) Categories(ctx context.Context) error {
	if !a.authorize(catalogRoles...) {
		return nil
	}
	store := a.selectedStore()
	if store == nil {
		return nil
	}

	f := a.categoryFetcher(store.ID)
	f.Run(ctx)
	st := f.Current()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSORT\tACTIVE")
	for _, c := range st.Data {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%v\n", c.ID, c.Name, c.SortOrder, c.IsActive)
	}
	tw.Flush()
	if st.FromCache {
		fmt.Fprintln(a.out, "(cached)")
	}
	return nil
}

// Products lists the active store's products. With a search argument the
// listing is filtered server-side and bypasses the cache; transient search
// results are not worth persisting.
func (a *App) Products(ctx context.Context, args []string) error {
	if !a.authorize(catalogRoles...) {
		return nil
	}
	store := a.selectedStore()
	if store == nil {
		return nil
	}

	if len(args) > 0 {
		list, err := a.products.List(ctx, store.ID, models.ProductFilters{
			Search: strings.Join(args, " "),
		})
		if err != nil {
			fmt.Fprintln(a.out, "Error:", fetch.Normalize(err))
			return nil
		}
		a.printProducts(list, false)
		return nil
	}

	f := a.productFetcher(store.ID)
	f.Run(ctx)
	st := f.Current()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}
	a.printProducts(st.Data, st.FromCache)
	return nil
}

func (a *App) printProducts(list []models.Product, cached bool) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tAVAILABLE")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%v\n", p.ID, p.Name, p.Price, p.Stock, p.IsAvailable)
	}
	tw.Flush()
	if cached {
		fmt.Fprintln(a.out, "(cached)")
	}
}
