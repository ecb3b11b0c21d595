// Package session orchestrates the highlight pipeline against a rendered
// view: it turns finalized selections into document patches, owns the single
// live adjustment session that revises a highlight's boundaries during a
// touch drag, and manages the single floating removal control.
//
// The controller binds to a view's signal hubs through scoped subscriptions,
// so detaching a view releases every handler it registered. All document
// mutations flow through the patch package against a fresh store read;
// failures leave the document untouched, are recorded in the controller's
// Diagnostics, and are never surfaced as blocking errors. The user can
// always re-select to try again.
//
// At most one adjustment session and one affordance exist at any time.
// Creating either supersedes the previous instance with an explicit
// teardown-then-create sequence.
package session
