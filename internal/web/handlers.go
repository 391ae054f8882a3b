package web

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/gamelog/internal/library"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/server"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

type authPage struct {
	page
	Username string
	Email    string
	Error    string
	Notice   string
}

type dashboardPage struct {
	page
	Filter  string
	Loading bool
	Total   int
	Games   []models.Game
}

type entryPage struct {
	page
	Game     models.Game
	Statuses []models.Status
	Confirm  bool
}

type searchPage struct {
	page
	Query   string
	Results []models.SearchResult
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, session.PathCollection)
}

func (a *App) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	data := authPage{page: page{Title: "Sign in"}}
	if r.URL.Query().Get("registered") != "" {
		data.Notice = "Account created. Sign in to continue."
	}
	a.render(w, r, http.StatusOK, "login", data)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	resp, err := a.client.Login(r.Context(), models.LoginRequest{Username: username, Password: password})
	if err != nil {
		a.logger.Warn("login failed", "username", username, "error", err, "request_id", server.RequestIDFrom(r.Context()))
		a.render(w, r, http.StatusUnauthorized, "login", authPage{
			page:     page{Title: "Sign in"},
			Username: username,
			Error:    shared.MsgLoginFailed,
		})
		return
	}

	a.setCredential(w, resp.Token)
	redirect(w, r, session.PathCollection)
}

func (a *App) registerForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register", authPage{page: page{Title: "Create account"}})
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	req := models.RegisterRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if err := a.client.Register(r.Context(), req); err != nil {
		a.logger.Warn("registration failed", "username", req.Username, "error", err)
		a.render(w, r, http.StatusBadRequest, "register", authPage{
			page:     page{Title: "Create account"},
			Username: req.Username,
			Email:    req.Email,
			Error:    shared.MsgRegisterFailed,
		})
		return
	}

	redirect(w, r, session.PathSignIn+"?registered=1")
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := a.token(r); ok {
		a.sessions.Drop(token)
	}
	a.clearCredential(w)
	redirect(w, r, session.PathSignIn)
}

func (a *App) dashboard(w http.ResponseWriter, r *http.Request) {
	st := a.state(r)
	_ = st.Store.Load(r.Context())

	if q := r.URL.Query(); q.Has("filter") {
		st.Store.SetFilter(strings.TrimSpace(q.Get("filter")))
	}

	snap := st.Store.Snapshot()
	a.render(w, r, http.StatusOK, "dashboard", dashboardPage{
		page:    page{Title: "My Library", SignedIn: true},
		Filter:  snap.Filter,
		Loading: snap.Loading,
		Total:   len(snap.Games),
		Games:   snap.Visible(),
	})
}

func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (a *App) entry(w http.ResponseWriter, r *http.Request) {
	st := a.state(r)
	_ = st.Store.Load(r.Context())

	id, ok := entryID(r)
	var game models.Game
	if ok {
		game, ok = st.Store.Find(id)
	}
	if !ok {
		a.render(w, r, http.StatusNotFound, "notfound", page{Title: "Not found", SignedIn: true})
		return
	}

	a.render(w, r, http.StatusOK, "game", entryPage{
		page:     page{Title: game.Title, SignedIn: true},
		Game:     game,
		Statuses: models.Statuses(),
		Confirm:  r.URL.Query().Get("confirm") == "remove",
	})
}

func (a *App) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	status, err := models.ParseStatus(r.PostFormValue("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st := a.state(r)
	entry := library.NewEntry(id, st.Store, st.Client, library.EntryOpts{Logger: a.logger})
	_ = entry.ChangeStatus(r.Context(), status)

	redirect(w, r, session.EntryPath(id))
}

func (a *App) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if r.PostFormValue("confirm") != "yes" {
		redirect(w, r, session.EntryPath(id)+"?confirm=remove")
		return
	}

	target := session.EntryPath(id)
	st := a.state(r)
	entry := library.NewEntry(id, st.Store, st.Client, library.EntryOpts{
		Confirmer: library.AlwaysConfirm,
		Navigator: library.NavigateFunc(func(path string) { target = path }),
		Logger:    a.logger,
	})
	_, _ = entry.Remove(r.Context())

	redirect(w, r, target)
}

func (a *App) search(w http.ResponseWriter, r *http.Request) {
	st := a.state(r)

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		_ = st.Results.Search(r.Context(), q)
	}

	a.render(w, r, http.StatusOK, "search", searchPage{
		page:    page{Title: "Search", SignedIn: true},
		Query:   st.Results.Query(),
		Results: st.Results.Results(),
	})
}

func (a *App) add(w http.ResponseWriter, r *http.Request) {
	externalID, err := strconv.ParseInt(r.PostFormValue("externalId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid externalId", http.StatusBadRequest)
		return
	}

	st := a.state(r)
	_, _ = st.Results.Add(r.Context(), externalID)

	redirect(w, r, session.PathSearch)
}
