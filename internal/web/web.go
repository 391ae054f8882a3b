// package web implements the browser front end
package web

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/server"
	"github.com/desertthunder/gamelog/internal/services"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

// AppOpts configures an [App].
type AppOpts struct {
	Client     *services.Client
	Logger     *log.Logger
	Metrics    *server.Metrics
	CookieName string
	TTL        time.Duration
	Secure     bool // mark the credential cookie Secure
}

// App is the web front end.
type App struct {
	client     *services.Client
	logger     *log.Logger
	metrics    *server.Metrics
	sessions   *Sessions
	views      *renderer
	gate       session.Gate
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// NewApp parses the templates and prepares the session cache.
func NewApp(opts AppOpts) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Metrics == nil {
		opts.Metrics = server.NewMetrics()
	}
	if opts.CookieName == "" {
		opts.CookieName = session.DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = session.DefaultTTL
	}

	views, err := newRenderer()
	if err != nil {
		return nil, err
	}

	logger := shared.WithLogger(opts.Logger, "component", "web")
	app := &App{
		client:     opts.Client,
		logger:     logger,
		metrics:    opts.Metrics,
		sessions:   NewSessions(opts.Client, opts.TTL, logger),
		views:      views,
		gate:       session.NewGate(),
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		now:        time.Now,
	}
	app.sessions.OnChange(app.metrics.SetSessions)
	return app, nil
}

// Sessions exposes the session cache.
func (a *App) Sessions() *Sessions { return a.sessions }

// Handler builds the router with all middleware and routes.
func (a *App) Handler() http.Handler {
	r := server.NewBasicRouter()
	r.Use(
		server.RequestID(),
		server.Logging(a.logger),
		server.Instrument(a.metrics),
		server.Gate(a.gate, a.cookieName, a.metrics),
	)

	r.HandleFunc(http.MethodGet, "/{$}", a.home)
	r.HandleFunc(http.MethodGet, "/healthz", a.healthz)

	r.HandleFunc(http.MethodGet, session.PathSignIn, a.loginForm)
	r.HandleFunc(http.MethodPost, session.PathSignIn, a.login)
	r.HandleFunc(http.MethodGet, session.PathSignUp, a.registerForm)
	r.HandleFunc(http.MethodPost, session.PathSignUp, a.register)
	r.HandleFunc(http.MethodPost, "/logout", a.logout)

	r.HandleFunc(http.MethodGet, session.PathCollection, a.dashboard)
	r.HandleFunc(http.MethodGet, session.PathEntry+"/{id}", a.entry)
	r.HandleFunc(http.MethodPost, session.PathEntry+"/{id}/status", a.changeStatus)
	r.HandleFunc(http.MethodPost, session.PathEntry+"/{id}/delete", a.remove)

	r.HandleFunc(http.MethodGet, session.PathSearch, a.search)
	r.HandleFunc(http.MethodPost, session.PathSearch+"/add", a.add)

	r.Handler(server.NewMetricsHandler(a.metrics))
	return r
}

// token reads the credential cookie.
func (a *App) token(r *http.Request) (string, bool) {
	c, err := r.Cookie(a.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// state returns the session state for the request's token. The gate guarantees a token on protected routes.
func (a *App) state(r *http.Request) *State {
	token, _ := a.token(r)
	return a.sessions.Get(token)
}

func (a *App) setCredential(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  a.now().Add(a.ttl),
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *App) clearCredential(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := a.views.render(w, status, name, data); err != nil {
		a.logger.Error("render failed", "template", name, "error", err, "request_id", server.RequestIDFrom(r.Context()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
