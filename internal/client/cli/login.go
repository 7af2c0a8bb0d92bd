package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and signs in. On success the
// session change triggers the store selection for the user's role, and the
// resulting context is echoed back. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.SignIn(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return err
	}

	user := a.session.Current().User
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", user.DisplayName(), user.Role)
	if sel := a.tenant.Current(); sel.Store != nil {
		fmt.Fprintln(a.out, "Managing store:", sel.Store.Name)
	}
	return nil
}

// Logout signs out and clears all locally persisted session state.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the current session and store selection.
func (a *App) WhoAmI(ctx context.Context) error {
	state := a.session.Current()
	if state.Loading {
		fmt.Fprintln(a.out, "Session is still loading.")
		return nil
	}
	if state.User == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	u := state.User
	fmt.Fprintf(a.out, "%s <%s>\nRole: %s\n", u.DisplayName(), u.Email, u.Role)

	sel := a.tenant.Current()
	switch {
	case sel.Store != nil && sel.CanSwitch:
		fmt.Fprintf(a.out, "Store: %s (one of %d selectable)\n", sel.Store.Name, len(sel.Stores))
	case sel.Store != nil:
		fmt.Fprintf(a.out, "Store: %s (fixed by role)\n", sel.Store.Name)
	default:
		fmt.Fprintln(a.out, "Store: none selected")
	}
	return nil
}
