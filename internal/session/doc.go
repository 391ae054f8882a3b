// Package session decides who may see which view and keeps the credential cookie.
//
// # Gate
//
// [Gate] inspects the requested path and whether a credential token exists. It never validates the
// token: an expired or forged token counts as signed in until the backend rejects a call.
//
//   - no token, path outside the sign-in/sign-up set : [RedirectSignIn]
//   - token, path in the sign-in/sign-up set : [RedirectHome]
//   - otherwise : [Allow]
//
// Only paths under [PathCollection], [PathEntry] and [PathSearch] are protected; anything else
// (health checks, metrics, static files) passes through untouched.
//
// # Credentials
//
// The bearer token lives in a single cookie. [Credentials] wraps a [Jar] (SQLite-backed for the
// CLI and TUI, [MemoryJar] in tests) and applies the fixed one-day lifetime on save.
package session
