package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/gamelog/internal/catalog"
	"github.com/desertthunder/gamelog/internal/formatter"
	"github.com/desertthunder/gamelog/internal/library"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseID(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", shared.ErrInvalidArgument, s)
	}
	return id, nil
}

// loadLibrary builds a store for path and fetches the collection once.
func (r *Runner) loadLibrary(ctx context.Context, path string) (*library.Store, error) {
	if err := r.requireSession(path); err != nil {
		return nil, err
	}
	store := library.NewStore(r.client, r.logger)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return store, nil
}

// GamesList prints the collection, narrowed by --filter.
func (r *Runner) GamesList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.loadLibrary(ctx, session.PathCollection)
	if err != nil {
		return err
	}
	store.SetFilter(cmd.String("filter"))
	games := store.Filtered()

	if cmd.Bool("json") {
		return r.writeJSON(games, cmd.Bool("pretty"))
	}

	if len(games) == 0 {
		if store.Filter() != "" {
			return r.writePlain("No games match %q\n", store.Filter())
		}
		return r.writePlain("Your library is empty. Try 'gamelog search <title>'\n")
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d of %d)", len(games), len(store.Games())))
	for _, g := range games {
		r.writePlain("%5d  %-14s  %s%s\n", g.ID, g.Status.Label(), g.Title, year(g.ReleaseYear))
	}
	return nil
}

// GamesShow prints a single entry.
func (r *Runner) GamesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	store, err := r.loadLibrary(ctx, session.EntryPath(id))
	if err != nil {
		return err
	}

	game, ok := store.Find(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrGameNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(game, true)
	}

	r.writePlainHeader(game.Title + year(game.ReleaseYear))
	r.writePlain("ID:        %d\n", game.ID)
	r.writePlain("Status:    %s\n", game.Status.Label())
	if game.Genres != "" {
		r.writePlain("Genres:    %s\n", game.Genres)
	}
	if game.Platforms != "" {
		r.writePlain("Platforms: %s\n", game.Platforms)
	}
	if game.ImageURL != "" {
		r.writePlain("Cover:     %s\n", game.ImageURL)
	}
	return nil
}

// GamesStatus changes the status of an entry.
func (r *Runner) GamesStatus(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	raw := cmd.StringArg("status")
	if raw == "" {
		return fmt.Errorf("%w: status", shared.ErrMissingArgument)
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		return err
	}

	store, err := r.loadLibrary(ctx, session.EntryPath(id))
	if err != nil {
		return err
	}
	if _, ok := store.Find(id); !ok {
		return fmt.Errorf("%w: %d", shared.ErrGameNotFound, id)
	}

	entry := library.NewEntry(id, store, r.client, library.EntryOpts{Logger: r.logger})
	if err := entry.ChangeStatus(ctx, status); err != nil {
		return err
	}

	game, _ := entry.Game()
	return r.writePlain("✓ %s is now %s\n", game.Title, game.Status.Label())
}

// GamesRemove deletes an entry after confirmation.
func (r *Runner) GamesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	store, err := r.loadLibrary(ctx, session.EntryPath(id))
	if err != nil {
		return err
	}
	game, ok := store.Find(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrGameNotFound, id)
	}

	var confirmer library.Confirmer = library.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		return r.confirm(fmt.Sprintf("%s (%s)", prompt, game.Title))
	})
	if cmd.Bool("yes") {
		confirmer = library.AlwaysConfirm
	}

	entry := library.NewEntry(id, store, r.client, library.EntryOpts{
		Confirmer: confirmer,
		Navigator: library.NavigateFunc(func(path string) { r.logger.Debug("removed", "next", path) }),
		Logger:    r.logger,
	})

	removed, err := entry.Remove(ctx)
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("Kept %s\n", game.Title)
	}
	return r.writePlain("✓ Removed %s (%d games left)\n", game.Title, len(store.Games()))
}

// GamesAdd searches the catalog for query and adds the result with the given external id.
func (r *Runner) GamesAdd(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	externalID, err := parseID(cmd.StringArg("external-id"))
	if err != nil {
		return err
	}

	store, err := r.loadLibrary(ctx, session.PathSearch)
	if err != nil {
		return err
	}
	results := catalog.NewResults(r.client, store, r.logger)
	if err := results.Search(ctx, query); err != nil {
		return err
	}

	game, err := results.Add(ctx, externalID)
	if err != nil {
		return err
	}
	if game == nil {
		res, _ := results.Find(externalID)
		return r.writePlain("%s is already in your library\n", res.Title)
	}
	return r.writePlain("✓ Added %s as %s (id %d)\n", game.Title, game.Status.Label(), game.ID)
}

// GamesExport renders the collection in the requested format.
func (r *Runner) GamesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.loadLibrary(ctx, session.PathCollection)
	if err != nil {
		return err
	}
	store.SetFilter(cmd.String("filter"))
	export := formatter.NewExport(store.Filtered(), store.Filter())

	output := cmd.String("output")
	if output == "" {
		return formatter.Write(r.output, export, format)
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("exported library", "path", path, "games", len(export.Games))
	return r.writePlain("✓ Exported %d games to %s\n", len(export.Games), path)
}

// Search prints catalog results for the query, marking titles already in the library.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if err := r.requireSession(session.PathSearch); err != nil {
		return err
	}

	results := catalog.NewResults(r.client, nil, r.logger)
	if err := results.Search(ctx, query); err != nil {
		return err
	}
	found := results.Results()

	if cmd.Bool("json") {
		return r.writeJSON(found, true)
	}
	if len(found) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	for _, res := range found {
		mark := " "
		if res.InLibrary {
			mark = "✓"
		}
		r.writePlain("%s %8d  %s%s\n", mark, res.ExternalAPIID, res.Title, year(res.ReleaseYear))
	}
	return nil
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d)", y)
}
