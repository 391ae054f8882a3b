// Package models defines the data carried between the gamelog backend and its views.
//
// The package contains two categories of types:
//
// 1. Library entities returned by the backend
//   - [Game] : an entry in the user's collection with its play [Status]
//   - [SearchResult] : a catalog hit annotated with library membership
//
// 2. Request/response bodies
//   - [AddGameRequest] : payload for adding a catalog hit to the collection
//   - [LoginRequest], [RegisterRequest], [LoginResponse] : authentication payloads
//
// [Status] is a closed enumeration. Its wire values are the ones the backend persists; [ParseStatus]
// also accepts the kebab-case names used on the command line.
package models
