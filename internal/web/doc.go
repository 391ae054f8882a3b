// Package web serves the server-rendered front end.
//
// Every page is an html/template rendered from the per-session [State]: a library store, the catalog search
// results and an API client bound to the session's token. State lives in an expiring cache keyed by the
// credential cookie value and is dropped on logout.
//
// Routes:
//
//	GET  /                   redirect to /dashboard
//	GET  /login              sign-in form
//	POST /login              sign in, set the credential cookie
//	GET  /register           sign-up form
//	POST /register           create an account
//	POST /logout             clear the cookie and the session state
//	GET  /dashboard          collection, ?filter= narrows by title
//	GET  /games/{id}         entry detail, ?confirm=remove shows the removal dialog
//	POST /games/{id}/status  change status
//	POST /games/{id}/delete  remove (requires confirm=yes)
//	GET  /search             catalog search, ?q= runs a new search
//	POST /search/add         add a result to the library
//	GET  /healthz            liveness
//	GET  /metrics            Prometheus metrics
//
// Navigation to protected pages is checked by the session gate middleware before any handler runs.
package web
