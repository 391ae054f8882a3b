// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the web front end's views:
//  1. [SignInView] : username and password form
//  2. [SignUpView] : account creation form
//  3. [CollectionView] : the library with a live title filter
//  4. [EntryView] : one entry with a status picker and removal (y/n confirmation)
//  5. [SearchView] : catalog search with per-result add
//
// Every navigation goes through the session gate, so a protected view without a stored credential lands on
// sign-in and the auth forms with one land on the collection.
//
// The library store is created when the first authenticated view mounts and dropped on logout. Store
// snapshots reach the program through [Model.SetSender]; the subscriber never blocks the event loop.
//
// Each mount gets its own context and generation number. Leaving a view cancels its context, and completion
// messages carrying an older generation are dropped, so a slow response can never update a view the user
// already left.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
