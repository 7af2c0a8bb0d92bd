package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/folkz/storeadmin/internal/client/fetch"
	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/services"
)

func (a *App) userFetcher() *fetch.Fetcher[*models.UserList] {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userList == nil {
		a.userList = fetch.New(fetch.Config[*models.UserList]{
			Fetch: func(ctx context.Context) (*models.UserList, error) {
				return a.users.List(ctx, services.UserFilters{})
			},
			Key:        &fetch.Key{Resource: "users"},
			Cache:      a.repos.Cache,
			TTL:        a.config.CacheTTL,
			Debounce:   a.config.DebounceInterval,
			MaxRetries: a.config.MaxRetries,
			Log:        a.log,
		})
	}
	return a.userList
}

// Users lists platform user accounts.
func (a *App) Users(ctx context.Context) error {
	if !a.authorize(adminRoles...) {
		return nil
	}

	f := a.userFetcher()
	f.Run(ctx)
	st := f.Current()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}
	if st.Data == nil {
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tACTIVE")
	for _, u := range st.Data.Users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%v\n", u.ID, u.Email, u.FullName, u.Role, u.IsActive)
	}
	tw.Flush()
	fmt.Fprintf(a.out, "%d of %d users\n", len(st.Data.Users), st.Data.Total)
	if st.FromCache {
		fmt.Fprintln(a.out, "(cached)")
	}
	return nil
}
