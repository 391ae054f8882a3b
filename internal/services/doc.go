// Package services implements the HTTP client for the gamelog backend.
//
// # Client
//
// [Client] wraps [http.Client] and exposes one method per backend operation:
//
//	Login         POST   /auth/login
//	Register      POST   /auth/register
//	ListGames     GET    /games
//	SearchGames   GET    /search/games?query=
//	AddGame       POST   /games
//	RemoveGame    DELETE /games/{id}
//	UpdateStatus  PATCH  /games/{id}
//
// Before a request leaves, the client asks its [session.TokenSource] for a token and, when one exists, attaches
// it with [oauth2.Token.SetAuthHeader]. Every request also carries an X-Request-ID and waits on a
// [rate.Limiter] so a burst of view refreshes cannot flood the backend.
//
// [Client.WithTokens] returns a copy bound to another token source; the web front uses it to act on behalf of
// the cookie carried by each request.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which matches the sentinels from the shared package:
//   - [shared.ErrAPIRequest] : any non-2xx status
//   - [shared.ErrNotAuthenticated] : 401 and 403
//   - [shared.ErrGameNotFound] : 404
//
// Transport failures are wrapped with "request failed". Nothing is retried.
package services
