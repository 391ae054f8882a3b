package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/services"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	creds      *session.Credentials
	gate       session.Gate
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	stdin      io.Reader
	password   func(prompt string) (string, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Client      *services.Client
	Credentials *session.Credentials
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader

	// Password reads a secret without echo. Defaults to the terminal when Input is one.
	Password func(prompt string) (string, error)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Credentials == nil {
		opts.Credentials = session.NewCredentials(
			session.NewMemoryJar(), opts.Config.Session.CookieName, opts.Config.Session.TTL(),
		)
	}
	if opts.Client == nil {
		opts.Client = services.NewClient(services.ClientOpts{
			BaseURL:   opts.Config.Backend.BaseURL,
			Tokens:    opts.Credentials,
			RateLimit: opts.Config.Backend.RateLimit,
			Timeout:   opts.Config.Backend.Timeout(),
			Logger:    opts.Logger,
		})
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		creds:      opts.Credentials,
		gate:       session.NewGate(),
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		stdin:      opts.Input,
		password:   opts.Password,
	}
	if r.password == nil {
		r.password = r.readPassword
	}
	return r
}

// SetLogger replaces the logger of the runner and its client, e.g. with a file logger while the TUI runs.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.client = r.client.WithLogger(logger)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, gamesCommand, searchCommand, apiCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireSession consults the gate for path and fails when the user has to sign in first.
func (r *Runner) requireSession(path string) error {
	if d := r.gate.Check(path, r.creds.Present()); d == session.RedirectSignIn {
		return fmt.Errorf("%w: run 'gamelog auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// readLine prints prompt and reads one line of input.
func (r *Runner) readLine(prompt string) (string, error) {
	if err := r.writePlain("%s", prompt); err != nil {
		return "", err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal and falls back to a plain line otherwise.
func (r *Runner) readPassword(prompt string) (string, error) {
	f, ok := r.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r.readLine(prompt)
	}

	if err := r.writePlain("%s", prompt); err != nil {
		return "", err
	}
	secret, err := term.ReadPassword(int(f.Fd()))
	r.writePlain("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// confirm asks a yes/no question. Anything but y or yes declines.
func (r *Runner) confirm(prompt string) (bool, error) {
	answer, err := r.readLine(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
