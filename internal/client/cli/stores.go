package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/folkz/storeadmin/internal/client/fetch"
	"github.com/folkz/storeadmin/internal/client/models"
)

func (a *App) storeFetcher() *fetch.Fetcher[[]models.Store] {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.storeList == nil {
		a.storeList = fetch.New(fetch.Config[[]models.Store]{
			Fetch:      a.stores.List,
			Key:        &fetch.Key{Resource: "stores"},
			Cache:      a.repos.Cache,
			TTL:        a.config.CacheTTL,
			Debounce:   a.config.DebounceInterval,
			MaxRetries: a.config.MaxRetries,
			Log:        a.log,
		})
	}
	return a.storeList
}

// Stores lists the stores this session may administer. The active store is
// marked with an asterisk.
func (a *App) Stores(ctx context.Context) error {
	if !a.authorize(adminRoles...) {
		return nil
	}

	f := a.storeFetcher()
	f.Run(ctx)
	st := f.Current()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}

	current := a.tenant.Current().StoreID()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tSLUG\tOPEN\tACTIVE")
	for _, s := range st.Data {
		marker := ""
		if s.ID == current {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%v\t%v\n", marker, s.ID, s.Name, s.Slug, s.IsOpen, s.IsActive)
	}
	tw.Flush()
	if st.FromCache {
		fmt.Fprintln(a.out, "(cached)")
	}
	return nil
}

// Use switches the active store for multi-store roles.
func (a *App) Use(ctx context.Context, args []string) error {
	if !a.authorize(adminRoles...) {
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: use <store-id>")
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid store id:", args[0])
		return nil
	}

	if err := a.tenant.Select(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Cannot switch store:", err)
		return err
	}

	fmt.Fprintln(a.out, "Now managing store:", a.tenant.Current().Store.Name)
	return nil
}
