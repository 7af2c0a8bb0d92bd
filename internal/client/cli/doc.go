// Package cli provides the interactive store admin command-line client.
//
// It wires configuration, local storage, the API client, the session store
// and the tenant context into an interactive REPL. Listing screens go
// through cached fetchers, so repeated visits within the freshness window
// render instantly without a network round trip.
//
// Typical flow: restore the persisted session, derive the active store from
// the user's role, then execute user commands until exit. The REPL is
// started via App.Run(ctx), which blocks until the user exits.
package cli
