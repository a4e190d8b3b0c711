package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository/cartid"
	"storefront/internal/service/cart"
	"storefront/internal/shopify"
)

// backend is what cartctl needs from the storefront API.
type backend interface {
	cart.Gateway
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

type backendFactory func(cfg *config.Config, log zerolog.Logger) (backend, error)

func defaultBackend(cfg *config.Config, log zerolog.Logger) (backend, error) {
	return shopify.New(shopify.Options{
		StoreDomain: cfg.Shopify.StoreDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		HTTPClient:  &http.Client{Timeout: cfg.Shopify.RequestTimeout},
		Logger:      log,
	})
}

type app struct {
	stateDir string
	session  string
	asJSON   bool
	verbose  bool
	timeout  time.Duration

	log     zerolog.Logger
	backend backend
	store   *cart.Store
}

func newRootCmd(factory backendFactory) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Manage a storefront cart from the command line",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := logger.ParseLevel(cfg.Log.Level)
			if a.verbose {
				level = zerolog.DebugLevel
			}
			a.log = logger.New(logger.Options{
				ServiceName: "cartctl",
				Level:       level,
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
			})
			if !cmd.Flags().Changed("state-dir") {
				a.stateDir = cfg.CartID.Dir
			}

			a.backend, err = factory(cfg, a.log)
			if err != nil {
				return err
			}
			slot, err := cartid.NewFile(a.stateDir)
			if err != nil {
				return err
			}
			a.store = cart.New(a.backend, slot, a.session, cart.Options{Logger: a.log})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.stateDir, "state-dir", ".storefront", "Directory holding the persisted cart id")
	root.PersistentFlags().StringVar(&a.session, "session", "default", "Name of the cart slot inside the state directory")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "Overall timeout for the command")

	root.AddCommand(
		a.productsCmd(),
		a.showCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.removeCmd(),
		a.resetCmd(),
	)
	return root
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

// load rehydrates the persisted cart. A cart the backend forgot is dropped
// silently; other failures are fatal for commands that need the cart.
func (a *app) load(ctx context.Context) error {
	if err := a.store.Init(ctx); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	return nil
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return errors.New(de.Display())
	}
	return err
}
