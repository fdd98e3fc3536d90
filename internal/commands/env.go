package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/config"
	"github.com/spendwise-dev/spendwise/internal/logging"
	"github.com/spendwise-dev/spendwise/internal/session"
	"github.com/spendwise-dev/spendwise/internal/views"
)

// appEnv bundles the config, session, API client, and logger a command
// needs.
type appEnv struct {
	cfg    *config.Config
	log    *logging.Logger
	sess   *session.Session
	client *api.Client
}

func newAppEnv() (*appEnv, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if os.Getenv("SPENDWISE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	log := logging.New(logging.Config{Level: level})

	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	sess, err := session.New(session.NewStore(tokenPath))
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.BaseURL,
		api.WithLogger(log),
		api.WithTimeout(time.Duration(cfg.Timeout)))

	return &appEnv{cfg: cfg, log: log, sess: sess, client: client}, nil
}

func (e *appEnv) redirectDelay() time.Duration {
	return time.Duration(e.cfg.RedirectDelay)
}

// loginHint rewrites view auth errors into a message pointing at the login
// command.
func loginHint(err error) error {
	switch {
	case errors.Is(err, views.ErrLoginRequired):
		return fmt.Errorf("not logged in: run 'spendwise login'")
	case errors.Is(err, views.ErrSessionExpired):
		return fmt.Errorf("session expired: run 'spendwise login'")
	default:
		return err
	}
}

// authFail clears the session on a 401 and rewrites the error; other errors
// pass through.
func (e *appEnv) authFail(out io.Writer, err error) error {
	if !api.IsUnauthorized(err) {
		return err
	}
	fmt.Fprintln(out, "Session expired. Please login again.")
	if lerr := e.sess.Logout(); lerr != nil {
		e.log.Error("clearing session failed", logging.FieldError, lerr)
	}
	return loginHint(views.ErrSessionExpired)
}

// promptConfirm asks a y/N question on out and reads the answer from in.
func promptConfirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// readPassword reads a password without echo when stdin is a terminal, and
// falls back to a plain line read for pipes and tests.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
