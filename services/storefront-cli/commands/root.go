// Package commands is the terminal storefront. Each invocation rebuilds the
// AppContext from a local storage file, so the token is the only state kept
// between runs.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
)

const (
	defaultBackendURL = "http://localhost:4000"
	defaultTimeout    = 10 * time.Second
)

type cli struct {
	out        io.Writer
	backendURL string
	storage    string
	role       string
	timeout    time.Duration
	verbose    bool

	notifier notify.Notifier
	log      *zap.Logger
	app      *appcontext.AppContext
}

// NewRootCommand builds the command tree. Tables and notices go to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out, notifier: notify.NewWriterNotifier(out), log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "MindConnect store from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.log.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.backendURL, "backend", envOr("BACKEND_URL", defaultBackendURL), "backend base URL")
	flags.StringVar(&c.storage, "storage", envOr("STOREFRONT_STORAGE", defaultStoragePath()), "local storage file")
	flags.StringVar(&c.role, "role", envOr("STOREFRONT_ROLE", string(models.RoleStudent)), "account role (student or doctor)")
	flags.DurationVar(&c.timeout, "timeout", defaultTimeout, "backend request timeout")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.cartCmd(),
		c.wishlistCmd(),
		c.ordersCmd(),
		c.doctorsCmd(),
		c.profileCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if c.verbose {
		l, err := logger.Build("development", nil)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		c.log = l
	}

	app, err := appcontext.New(ctx, appcontext.Options{
		BackendURL: c.backendURL,
		Timeout:    c.timeout,
		Role:       models.Role(c.role),
		Storage:    session.NewFileStorage(c.storage),
		Notifier:   c.notifier,
		Logger:     c.log,
	})
	if err != nil {
		c.notifier.Notify(ctx, notify.Error("Could not read local storage"))
		return err
	}
	c.app = app
	return nil
}

// authed wraps run so it only executes with a stored token.
func (c *cli) authed(run func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !c.app.LoggedIn() {
			return c.reject(ctx, "Please login first")
		}
		return run(ctx, args)
	}
}

// reject reports a problem caught before any request was made.
func (c *cli) reject(ctx context.Context, msg string) error {
	c.notifier.Notify(ctx, notify.Error(msg))
	return apperrors.Validation(msg)
}

// studentID needs the profile when the token carries no id claim.
func (c *cli) studentID(ctx context.Context) (string, error) {
	if id := c.app.StudentID(); id != "" {
		return id, nil
	}
	if _, err := c.app.Profile.LoadProfileData(ctx); err != nil {
		return "", err
	}
	if id := c.app.StudentID(); id != "" {
		return id, nil
	}
	return "", c.reject(ctx, "Please login to view your orders")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mindconnect", "storage.json")
	}
	return filepath.Join(home, ".mindconnect", "storage.json")
}
