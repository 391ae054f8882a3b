package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/gamelog/internal/server"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	"github.com/desertthunder/gamelog/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web front end until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := r.config.Server
	if host := cmd.String("host"); host != "" {
		addr.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		addr.Port = int(port)
	}

	app, err := web.NewApp(web.AppOpts{
		Client:     r.client,
		Logger:     r.logger,
		CookieName: r.config.Session.CookieName,
		TTL:        r.config.Session.TTL(),
		Secure:     cmd.Bool("secure"),
	})
	if err != nil {
		return fmt.Errorf("failed to build web app: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ready := make(chan string, 1)
	go func() {
		var url string
		select {
		case bound := <-ready:
			url = "http://" + bound
		case <-ctx.Done():
			return
		}
		r.writePlain("✓ Listening on %s\n", url)
		if cmd.Bool("open") {
			if err := shared.OpenBrowser(url + session.PathCollection); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
	}()

	return server.Serve(ctx, addr.Addr(), app.Handler(), r.logger, ready)
}
