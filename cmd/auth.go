package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	"github.com/urfave/cli/v3"
)

// credentialsFor fills in the username and password from arguments, flags or prompts.
func (r *Runner) credentialsFor(cmd *cli.Command) (username, password string, err error) {
	username = strings.TrimSpace(cmd.StringArg("username"))
	if username == "" {
		if username, err = r.readLine("Username: "); err != nil {
			return "", "", err
		}
	}
	if username == "" {
		return "", "", fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	password = cmd.String("password")
	if password == "" {
		if password, err = r.password("Password: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		return "", "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return username, password, nil
}

// AuthLogin signs in and stores the returned token in the credential cookie.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if d := r.gate.Check(session.PathSignIn, r.creds.Present()); d == session.RedirectHome {
		return fmt.Errorf("%w: run 'gamelog auth logout' first", shared.ErrAlreadySignedIn)
	}

	username, password, err := r.credentialsFor(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("signing in", "username", username)

	resp, err := r.client.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		r.logger.Debug("login rejected", "error", err)
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, shared.MsgLoginFailed)
	}

	if err := r.creds.Save(ctx, resp.Token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return r.writePlain("✓ Signed in as %s\n", username)
}

// AuthRegister creates an account. It does not sign in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username, password, err := r.credentialsFor(cmd)
	if err != nil {
		return err
	}

	req := models.RegisterRequest{
		Username: username,
		Email:    strings.TrimSpace(cmd.String("email")),
		Password: password,
	}

	r.logger.Info("creating account", "username", username)

	if err := r.client.Register(ctx, req); err != nil {
		r.logger.Debug("registration rejected", "error", err)
		return fmt.Errorf("%w: %s", shared.ErrRegisterFailed, shared.MsgRegisterFailed)
	}

	r.writePlain("✓ Account created\n")
	return r.writePlain("Run 'gamelog auth login %s' to sign in\n", username)
}

// AuthLogout clears the credential cookie.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.creds.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the stored credential. Token claims are decoded for display only.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cookie, err := r.creds.Cookie(ctx)
	if err != nil {
		r.logger.Debug("no credential", "error", err)
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlainHeader("Credential")
	r.writePlain("Cookie:  %s\n", cookie.Name)
	r.writePlain("Expires: %s (in %s)\n", cookie.ExpiresAt.Local().Format(time.RFC1123),
		time.Until(cookie.ExpiresAt).Round(time.Minute))

	if info, ok := session.Describe(cookie.Value); ok {
		if info.Subject != "" {
			r.writePlain("Subject: %s\n", info.Subject)
		}
		if !info.IssuedAt.IsZero() {
			r.writePlain("Issued:  %s\n", info.IssuedAt.Local().Format(time.RFC1123))
		}
		if !info.ExpiresAt.IsZero() {
			r.writePlain("Token expires: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
		}
	}
	return nil
}
