/*
main.go - Application entry point

PURPOSE:
  Command line for the value algebra: runs the HTTP server or resolves one
  expression file locally. Handles configuration, dependency injection, and
  graceful shutdown.

COMMANDS:
  serve                      Start the HTTP API (also the default)
  resolve [FILE|-]           Resolve one JSON expression tree and print it

FLAGS:
  Command flags are bound into the config, so --port overrides both
  server.port in the file and ALGEBRA_SERVER_PORT.

STARTUP SEQUENCE (serve):
  1. Load configuration (defaults, --config file, ALGEBRA_* env)
  2. Build the logger
  3. Open the memo/log store (none, memory or sqlite)
  4. Create resolver, handler and router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Serve with a sqlite memo
  ALGEBRA_CACHE_DRIVER=sqlite ./algebra serve

  # Resolve a tree against a fixed reference
  ./algebra resolve --reference 2013-02-12T04:30:00Z next-tuesday.json

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Settings and defaults
  - store/sqlite/sqlite.go: Persistent memo and log
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/warp/value-algebra/api"
	"github.com/warp/value-algebra/config"
	"github.com/warp/value-algebra/observability"
	"github.com/warp/value-algebra/plan"
	"github.com/warp/value-algebra/resolve"
	"github.com/warp/value-algebra/resolve/memo"
	"github.com/warp/value-algebra/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "algebra",
		Short:        "Resolve temporal and numeric expression trees",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	serve := serveCmd(&configPath)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, resolveCmd(&configPath))
	return root
}

// =============================================================================
// SERVE
// =============================================================================

func serveCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			cfg, err := config.Load(*configPath,
				config.Flag{Key: "server.port", Flag: fs.Lookup("port")},
				config.Flag{Key: "cache.driver", Flag: fs.Lookup("cache")},
				config.Flag{Key: "cache.path", Flag: fs.Lookup("db")},
				config.Flag{Key: "log.level", Flag: fs.Lookup("log-level")},
			)
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().Int("port", 8080, "HTTP server port")
	cmd.Flags().String("cache", config.CacheMemory, "memo store: none, memory or sqlite")
	cmd.Flags().String("db", "./data/algebra.db", "SQLite database path when --cache=sqlite")
	cmd.Flags().String("log-level", "info", "debug, info, warn or error")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	opts, closeStore, err := storeOptions(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts = append(opts,
		resolve.WithLogger(logger),
		resolve.WithHorizon(cfg.Resolver.HorizonYears),
		resolve.WithWorkers(cfg.Batch.Workers),
	)
	resolver := resolve.New(opts...)

	handler := api.NewHandler(resolver, cfg.Resolver.Timezone, cfg.Batch.MaxSize)
	handler.Logger = logger
	router := api.NewRouter(handler, *cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "cache", cfg.Cache.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	logger.Info("server stopped")
	return nil
}

// storeOptions opens the configured memo and log store.
func storeOptions(cfg *config.Config) ([]resolve.Option, func(), error) {
	switch cfg.Cache.Driver {
	case config.CacheNone:
		return nil, func() {}, nil
	case config.CacheSQLite:
		store, err := sqlite.New(cfg.Cache.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open sqlite store")
		}
		return []resolve.Option{resolve.WithMemo(store), resolve.WithLog(store)}, func() { store.Close() }, nil
	default:
		store := memo.NewMemory(memo.WithCapacity(cfg.Cache.MaxOutputs, cfg.Cache.MaxRecords))
		return []resolve.Option{resolve.WithMemo(store), resolve.WithLog(store)}, func() {}, nil
	}
}

// =============================================================================
// RESOLVE
// =============================================================================

func resolveCmd(configPath *string) *cobra.Command {
	var reference string
	cmd := &cobra.Command{
		Use:   "resolve [FILE|-]",
		Short: "Resolve one JSON expression tree and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath,
				config.Flag{Key: "resolver.timezone", Flag: cmd.Flags().Lookup("tz")},
			)
			if err != nil {
				return err
			}

			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			data, err := readSource(cmd.InOrStdin(), src)
			if err != nil {
				return err
			}
			n, err := plan.Parse(data)
			if err != nil {
				return err
			}

			ref := time.Now()
			if reference != "" {
				if ref, err = time.Parse(time.RFC3339, reference); err != nil {
					return errors.Wrap(err, "--reference")
				}
			}
			rc, err := resolve.NewContext(ref, cfg.Resolver.Timezone)
			if err != nil {
				return err
			}

			r := resolve.New(resolve.WithHorizon(cfg.Resolver.HorizonYears))
			res, err := r.ResolveExpr(cmd.Context(), rc, n)
			if err != nil {
				return errors.Wrapf(err, "%s", resolve.Classify(err))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Output)
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "reference instant, RFC3339 (default now)")
	cmd.Flags().String("tz", "UTC", "IANA timezone")
	return cmd
}

func readSource(stdin io.Reader, src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrap(err, "read expression")
	}
	return data, nil
}
