// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/gamelog/internal/formatter"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/urfave/cli/v3"
)

// authCommand handles sign in, sign up and the stored credential
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, create an account or inspect the stored credential",
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "Sign in and store the credential cookie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted without echo when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:      "register",
				Usage:     "Create an account",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted without echo when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a credential is stored and when it expires",
				Action: r.AuthStatus,
			},
		},
	}
}

// gamesCommand handles library operations
func gamesCommand(r *Runner) *cli.Command {
	statuses := make([]string, 0, 4)
	for _, s := range models.Statuses() {
		statuses = append(statuses, s.Name())
	}
	formats := make([]string, 0, 4)
	for _, f := range formatter.Formats() {
		formats = append(formats, string(f))
	}

	return &cli.Command{
		Name:    "games",
		Aliases: []string{"g"},
		Usage:   "Manage your game library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List games in your library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only show titles containing this text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.GamesList,
			},
			{
				Name:      "show",
				Usage:     "Show a single library entry",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GamesShow,
			},
			{
				Name:      "status",
				Usage:     "Change the status of an entry (" + strings.Join(statuses, ", ") + ")",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "status"}},
				Action:    r.GamesStatus,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove an entry from your library",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.GamesRemove,
			},
			{
				Name:      "add",
				Usage:     "Search the catalog and add a result by its external id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}, &cli.StringArg{Name: "external-id"}},
				Action:    r.GamesAdd,
			},
			{
				Name:  "export",
				Usage: "Export your library (" + strings.Join(formats, ", ") + ")",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format",
						Value: string(formatter.FormatCSV),
					},
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only export titles containing this text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.GamesExport,
			},
		},
	}
}

// searchCommand queries the external catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the game catalog",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// apiCommand handles direct authenticated API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the gamelog API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST to the API with a JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON request body",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse and manage your library in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Usage: "Path of the first view (/dashboard, /search, /login, ...)",
			},
		},
		Action: r.TUI,
	}
}

// serveCommand runs the web front end
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web front end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to [server] host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (defaults to [server] port)",
			},
			&cli.BoolFlag{
				Name:  "secure",
				Usage: "Mark the credential cookie Secure",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the dashboard in the default browser",
			},
		},
		Action: r.Serve,
	}
}
