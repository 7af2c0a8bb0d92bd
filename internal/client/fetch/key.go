package fetch

import (
	"strconv"
	"strings"
)

// Key identifies a cached fetch result. Keys are structured rather than
// ad hoc strings so that rendering is collision-free and every entry scoped
// to a store can be invalidated together when the active store changes.
type Key struct {
	// Resource names the entity being fetched, e.g. "categories".
	Resource string
	// StoreID scopes the entry to a store; 0 for unscoped resources.
	StoreID int64
	// Extra distinguishes variants of the same listing (filters, search).
	Extra []string
}

// String renders the key to its stable storage form.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Resource)
	b.WriteString("/store=")
	b.WriteString(strconv.FormatInt(k.StoreID, 10))
	for _, e := range k.Extra {
		b.WriteByte('/')
		b.WriteString(e)
	}
	return b.String()
}
