// Package access decides whether a protected screen may be shown to the
// current session. The decision is pure: it depends only on the session
// snapshot and the roles the screen requires, and must be re-evaluated on
// every navigation and on every session change.
package access

import (
	"fmt"
	"strings"

	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/session"
)

// Outcome is the result of an access decision.
type Outcome int

const (
	// Pending means session resolution has not finished; show a wait state
	// and do not redirect yet.
	Pending Outcome = iota
	// SignedOut means there is no session; send the user to sign-in.
	SignedOut
	// Forbidden means the session's role is not among the required ones;
	// render a denial in place, no redirect.
	Forbidden
	// Granted means the screen may be shown.
	Granted
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case SignedOut:
		return "signed-out"
	case Forbidden:
		return "forbidden"
	case Granted:
		return "granted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Decision carries the outcome plus the roles that were required, so a
// forbidden screen can name them.
type Decision struct {
	Outcome  Outcome
	Required []models.Role
}

// Message returns a user-facing denial message for Forbidden decisions.
func (d Decision) Message() string {
	names := make([]string, len(d.Required))
	for i, r := range d.Required {
		names[i] = string(r)
	}
	return "access denied: requires one of " + strings.Join(names, ", ")
}

// Decide evaluates access for a session snapshot. An empty required list
// means any authenticated session is enough.
func Decide(state session.State, required ...models.Role) Decision {
	d := Decision{Required: required}
	switch {
	case state.Loading:
		d.Outcome = Pending
	case state.User == nil:
		d.Outcome = SignedOut
	case len(required) > 0 && !hasRole(state.User.Role, required):
		d.Outcome = Forbidden
	default:
		d.Outcome = Granted
	}
	return d
}

func hasRole(role models.Role, required []models.Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
