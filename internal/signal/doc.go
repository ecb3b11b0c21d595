// Package signal provides the subscription plumbing between a host view and
// the highlight session controller: typed emit hubs, cancellable subscription
// handles, and scopes that release every handle they own deterministically.
//
// Every subscription the controller creates is expressed as a handle returned
// into an owning Scope; tearing the scope down removes all of its handlers at
// once, so there is never a manually matched add/remove pair.
//
// Basic usage:
//
//	hub := signal.NewHub[string]()
//	scope := signal.NewScope()
//
//	scope.Add(hub.Subscribe(func(v string) {
//	    // handle v
//	}))
//
//	hub.Emit("hello")
//	scope.Release() // the handler above is gone
package signal
