package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shopcart/internal/cart"
	"github.com/Makepad-fr/shopcart/internal/catalog"
	"github.com/Makepad-fr/shopcart/internal/config"
	"github.com/Makepad-fr/shopcart/internal/logging"
	"github.com/Makepad-fr/shopcart/internal/store"
	"github.com/Makepad-fr/shopcart/internal/ui"
)

// Options tune where output goes. Zero values mean the process streams and
// a logger built from config.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

// errHelpShown is returned when help was printed in place of a command.
var errHelpShown = errors.New("help shown")

// Run executes one command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}

	a := &app{out: opt.Stdout, logger: opt.Logger}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return 0
	}
	if errors.Is(err, errHelpShown) {
		return 2
	}
	ui.Fail(opt.Stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// app is the per-invocation state shared by subcommands.
type app struct {
	out io.Writer

	// flags
	configPath string
	siteName   string
	backend    string
	dataDir    string
	theme      string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	ownLogger bool
	site      string
	siteCfg   config.SiteConfig
	slot      store.Slot
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shopcart",
		Short: "shopcart - storefront cart from the terminal",
		Long: `shopcart keeps a shopping cart per storefront and mirrors it to a
persisted slot after every change.

Run "shopcart browse" for the interactive storefront.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// bare "shopcart" prints help and exits 2, like the todo CLI
			_ = cmd.Help()
			return errHelpShown
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultFileName+")")
	pf.StringVar(&a.siteName, "site", "", "storefront to use (default from config)")
	pf.StringVar(&a.backend, "backend", "", "slot backend: json, sqlite, redis, memory")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory for the json backend")
	pf.StringVar(&a.theme, "theme", "classic", "output theme: classic, neon, mono")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAddCmd(a),
		newCountCmd(a),
		newSummaryCmd(a),
		newProductsCmd(a),
		newCategoriesCmd(a),
		newSitesCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}
	if a.siteName != "" {
		cfg.DefaultSite = a.siteName
	}
	// env, file and flags are all user input: a bad value is a usage error
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}
	a.cfg = cfg

	a.site, a.siteCfg, err = cfg.Site("")
	if err != nil {
		return usageError{err}
	}

	if a.logger == nil {
		a.logger, err = logging.New(cfg.Logging.Level, a.verbose)
		if err != nil {
			return err
		}
		a.ownLogger = true
	}
	ui.SetTheme(a.theme)
	a.logger.Debug("configured",
		zap.String("site", a.site),
		zap.String("slot_key", a.siteCfg.SlotKey),
		zap.String("backend", cfg.Storage.Backend))
	return nil
}

// openCart opens the configured slot and returns a loaded cart for the site.
func (a *app) openCart(ctx context.Context, opts ...cart.Option) (*cart.Store, error) {
	slot, err := store.Open(ctx, a.cfg.Storage, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open %s slot: %w", a.cfg.Storage.Backend, err)
	}
	a.slot = slot

	opts = append([]cart.Option{cart.WithLogger(a.logger)}, opts...)
	c := cart.New(slot, a.siteCfg.SlotKey, opts...)
	c.Load(ctx)
	return c, nil
}

func (a *app) catalog() (*catalog.Catalog, error) {
	return catalog.ForSite(a.site, a.siteCfg.Catalog)
}

func (a *app) close() {
	if a.slot != nil {
		if err := a.slot.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close slot", zap.Error(err))
		}
	}
	if a.ownLogger {
		_ = a.logger.Sync()
	}
}
