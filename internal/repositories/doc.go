// Package repositories implements SQLite persistence for the client's only durable state: the credential cookie.
//
// [CookieRepository] satisfies [session.Jar]. Rows past their expires_at read as absent and are deleted on
// access, mirroring how a browser drops expired cookies. The collection itself is never stored here.
package repositories
