package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

// authForm backs both the sign-in and sign-up views.
type authForm struct {
	inputs  []textinput.Model
	focused int
	pending bool
	err     string
	notice  string
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func newSignInForm() *authForm {
	return &authForm{inputs: []textinput.Model{newInput("username", false), newInput("password", true)}}
}

func newSignUpForm() *authForm {
	return &authForm{inputs: []textinput.Model{
		newInput("username", false),
		newInput("email", false),
		newInput("password", true),
	}}
}

func (f *authForm) value(i int) string { return f.inputs[i].Value() }

func (f *authForm) focus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focused {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *authForm) next() tea.Cmd {
	f.focused = (f.focused + 1) % len(f.inputs)
	return f.focus()
}

func (f *authForm) last() bool { return f.focused == len(f.inputs)-1 }

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *authForm) render(title, hint string) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")
	if f.notice != "" {
		b.WriteString(styles.ok.Render(f.notice) + "\n\n")
	}
	if f.err != "" {
		b.WriteString(styles.err.Render(f.err) + "\n\n")
	}
	for _, in := range f.inputs {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("\n" + hint)
	return b.String()
}

func (m *Model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.signIn
	if f.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.signUp):
		return m, m.navigate(session.PathSignUp)
	case key.Matches(msg, m.keys.tab):
		return m, f.next()
	case key.Matches(msg, m.keys.enter):
		if !f.last() {
			return m, f.next()
		}
		f.pending = true
		f.err = ""
		return m, m.loginCmd(strings.TrimSpace(f.value(0)), f.value(1))
	}

	return m, f.update(msg)
}

func (m *Model) loginCmd(username, password string) tea.Cmd {
	ctx, gen, backend, creds := m.viewCtx, m.gen, m.backend, m.creds
	return func() tea.Msg {
		resp, err := backend.Login(ctx, models.LoginRequest{Username: username, Password: password})
		if err == nil {
			err = creds.Save(ctx, resp.Token)
		}
		return loginDoneMsg{gen: gen, err: err}
	}
}

func (m *Model) signedIn(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("login failed", "error", msg.err)
		m.signIn.pending = false
		m.signIn.err = shared.MsgLoginFailed
		return m, nil
	}
	return m, m.navigate(session.PathCollection)
}

func (m *Model) updateSignUp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.signUp
	if f.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.navigate(session.PathSignIn)
	case key.Matches(msg, m.keys.tab):
		return m, f.next()
	case key.Matches(msg, m.keys.enter):
		if !f.last() {
			return m, f.next()
		}
		f.pending = true
		f.err = ""
		return m, m.registerCmd(models.RegisterRequest{
			Username: strings.TrimSpace(f.value(0)),
			Email:    strings.TrimSpace(f.value(1)),
			Password: f.value(2),
		})
	}

	return m, f.update(msg)
}

func (m *Model) registerCmd(req models.RegisterRequest) tea.Cmd {
	ctx, gen, backend := m.viewCtx, m.gen, m.backend
	return func() tea.Msg {
		return registerDoneMsg{gen: gen, err: backend.Register(ctx, req)}
	}
}

func (m *Model) registered(msg registerDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("registration failed", "error", msg.err)
		m.signUp.pending = false
		m.signUp.err = shared.MsgRegisterFailed
		return m, nil
	}
	cmd := m.navigate(session.PathSignIn)
	if m.signIn != nil {
		m.signIn.notice = "Account created. Sign in to continue."
	}
	return m, cmd
}

func (m *Model) renderSignIn() string {
	hint := m.help.ShortHelpView([]key.Binding{m.keys.tab, m.keys.enter, m.keys.signUp, m.keys.abort})
	if m.signIn.pending {
		hint = m.busy("Signing in…")
	}
	return m.signIn.render("Welcome back", hint)
}

func (m *Model) renderSignUp() string {
	hint := m.help.ShortHelpView([]key.Binding{m.keys.tab, m.keys.enter, m.keys.back, m.keys.abort})
	if m.signUp.pending {
		hint = m.busy("Creating account…")
	}
	return m.signUp.render("Create Account", hint)
}
