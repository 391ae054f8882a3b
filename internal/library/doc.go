// Package library holds the authenticated user's collection in memory.
//
// A [Store] is created when the authenticated section of a front end mounts and is discarded on logout. It
// caches the last collection fetched from the backend, a free-text filter and a loading flag, and publishes
// an immutable [Snapshot] to subscribers on every change.
//
// Refreshes may overlap. Each one is numbered when issued and a response is applied only if nothing newer
// has been applied already, so the latest-issued refresh wins. Loading stays true while any refresh is in
// flight.
//
// [Entry] runs the detail view commands (status change and removal) against one entry, refreshing the
// store after each successful mutation.
package library
