package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/dcode-github/rental_booking_system/booking"
	"github.com/dcode-github/rental_booking_system/cache"
	"github.com/dcode-github/rental_booking_system/config"
	"github.com/dcode-github/rental_booking_system/middleware"
	"github.com/dcode-github/rental_booking_system/routes"
	"github.com/dcode-github/rental_booking_system/store"
)

type ServeOptions struct {
	*RootOptions
	Port string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the HTTP API.

The store backend is chosen with STORE_DRIVER (mongo or sqlite). When
REDIS_ADD is set, catalog reads are cached in Redis.

Example:
  rentals serve
  STORE_DRIVER=sqlite SQLITE_PATH=./booking.db rentals serve --port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTKey(); err != nil {
				return err
			}
			if opts.Port != "" {
				cfg.Port = opts.Port
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides PORT)")

	return cmd
}

func newCatalogCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADD not set, catalog cache disabled")
		return cache.Noop{}, func() {}
	}
	client, err := config.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		log.Printf("Catalog cache disabled: %v", err)
		return cache.Noop{}, func() {}
	}
	return cache.NewPropertyCache(client, cfg.CacheTTL), func() { client.Close() }
}

// NewHandler wires the router, middleware and CORS around st.
func NewHandler(st store.Store, c cache.Cache, cfg config.Config) http.Handler {
	router := mux.NewRouter()
	routes.Routes(router, st, booking.NewService(st, st), c, cfg.JWTKey)

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return middleware.RequestLogger(log.Writer(), corsOptions.Handler(router))
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	catalog, closeCache := newCatalogCache(ctx, cfg)
	defer closeCache()

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        NewHandler(st, catalog, cfg),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}
