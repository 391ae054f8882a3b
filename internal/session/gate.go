package session

import (
	"strconv"
	"strings"
)

// View paths shared by the CLI, TUI and web front.
const (
	PathSignIn     = "/login"
	PathSignUp     = "/register"
	PathCollection = "/dashboard"
	PathEntry      = "/games"
	PathSearch     = "/search"
)

// EntryPath returns the detail view path for a library entry.
func EntryPath(id int64) string {
	return PathEntry + "/" + strconv.FormatInt(id, 10)
}

// Decision is the outcome of a gate check.
type Decision int

const (
	Allow Decision = iota
	RedirectSignIn
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case RedirectSignIn:
		return "redirect-sign-in"
	case RedirectHome:
		return "redirect-home"
	default:
		return "allow"
	}
}

// Target returns the path a redirect decision points at, or "" for [Allow].
func (d Decision) Target() string {
	switch d {
	case RedirectSignIn:
		return PathSignIn
	case RedirectHome:
		return PathCollection
	default:
		return ""
	}
}

// Gate enforces authenticated vs. unauthenticated view access from token presence alone.
type Gate struct {
	protected []string
	auth      []string
}

// NewGate creates a [Gate] with the default path sets.
func NewGate() Gate {
	return Gate{
		protected: []string{PathCollection, PathEntry, PathSearch},
		auth:      []string{PathSignIn, PathSignUp},
	}
}

// Check decides what happens to a navigation to path.
func (g Gate) Check(path string, hasToken bool) Decision {
	isAuthPage := matchAny(path, g.auth)

	if !hasToken && !isAuthPage && matchAny(path, g.protected) {
		return RedirectSignIn
	}
	if hasToken && isAuthPage {
		return RedirectHome
	}
	return Allow
}

// IsAuthPage reports whether path is a sign-in or sign-up view.
func (g Gate) IsAuthPage(path string) bool { return matchAny(path, g.auth) }

// IsProtected reports whether path requires a credential.
func (g Gate) IsProtected(path string) bool { return matchAny(path, g.protected) }

// matchAny matches path against prefixes on segment boundaries, so /games/12 matches /games but /gamesx does not.
func matchAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") || strings.HasPrefix(path, p+"?") {
			return true
		}
	}
	return false
}
