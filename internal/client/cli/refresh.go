package cli

import (
	"context"
	"fmt"
)

// Refresh forces a fresh fetch for the named screen, evicting its cache
// entry first. "refresh session" re-validates the signed-in user instead.
func (a *App) Refresh(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: refresh <session|stores|categories|products|users>")
		return nil
	}

	switch args[0] {
	case "session":
		if !a.authorize() {
			return nil
		}
		a.session.Refresh(ctx)
		return a.WhoAmI(ctx)

	case "stores":
		if !a.authorize(adminRoles...) {
			return nil
		}
		a.storeFetcher().Refetch(ctx)
		return a.Stores(ctx)

	case "categories":
		if !a.authorize(catalogRoles...) {
			return nil
		}
		store := a.selectedStore()
		if store == nil {
			return nil
		}
		a.categoryFetcher(store.ID).Refetch(ctx)
		return a.Categories(ctx)

	case "products":
		if !a.authorize(catalogRoles...) {
			return nil
		}
		store := a.selectedStore()
		if store == nil {
			return nil
		}
		a.productFetcher(store.ID).Refetch(ctx)
		return a.Products(ctx, nil)

	case "users":
		if !a.authorize(adminRoles...) {
			return nil
		}
		a.userFetcher().Refetch(ctx)
		return a.Users(ctx)

	default:
		fmt.Fprintln(a.out, "Unknown screen:", args[0])
		return nil
	}
}
