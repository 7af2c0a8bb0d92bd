package cli

import (
	"fmt"

	"github.com/folkz/storeadmin/internal/client/access"
	"github.com/folkz/storeadmin/internal/client/models"
)

// Role requirements per screen. Catalog screens additionally admit store
// managers; store and user administration is for admins only.
var (
	adminRoles = []models.Role{
		models.RolePlatformAdmin,
		models.RoleCompanyAdmin,
	}
	catalogRoles = []models.Role{
		models.RolePlatformAdmin,
		models.RoleCompanyAdmin,
		models.RoleStoreManager,
	}
)

// authorize gates a screen on the current session. It prints the reason for
// a denial and reports whether the screen may render.
func (a *App) authorize(required ...models.Role) bool {
	d := access.Decide(a.session.Current(), required...)
	switch d.Outcome {
	case access.Granted:
		return true
	case access.Pending:
		fmt.Fprintln(a.out, "Session is still loading, try again.")
	case access.SignedOut:
		fmt.Fprintln(a.out, "Please login first.")
	case access.Forbidden:
		fmt.Fprintln(a.out, d.Message())
	}
	return false
}

// selectedStore returns the active store, printing a hint when none is set.
func (a *App) selectedStore() *models.Store {
	sel := a.tenant.Current()
	if sel.Store == nil {
		if sel.CanSwitch {
			fmt.Fprintln(a.out, "No store selected. Run 'stores' and 'use <id>'.")
		} else {
			fmt.Fprintln(a.out, "No store is linked to this account.")
		}
		return nil
	}
	return sel.Store
}
