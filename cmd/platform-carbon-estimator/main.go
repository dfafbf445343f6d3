package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/platform-carbon-estimator/internal/api"
	"github.com/rshade/platform-carbon-estimator/internal/carbon"
	"github.com/rshade/platform-carbon-estimator/internal/config"
	"github.com/rshade/platform-carbon-estimator/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "[platform-carbon-estimator] %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "[platform-carbon-estimator] %v\n", err)
		return 1
	}
	if cfg.TestMode {
		logger = logger.Level(zerolog.DebugLevel)
	}
	carbon.SetLogger(logger)

	service, err := newService(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize estimator")
		return 1
	}

	if flags.Input != "" {
		if err := runOnce(service, flags.Input, flags.Pretty, stdin, stdout); err != nil {
			logger.Error().Err(err).Str("input", flags.Input).Msg("analysis failed")
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, service, logger); err != nil {
		logger.Error().Err(err).Msg("server failed")
		return 1
	}
	return 0
}

func newService(cfg *config.Config, logger zerolog.Logger) (*api.Service, error) {
	coeffs, err := carbon.LoadCoefficients(cfg.Coefficients.File)
	if err != nil {
		return nil, err
	}

	analyzer, err := carbon.NewAnalyzer(coeffs, carbon.WithLogger(logger.With().Str("component", "carbon").Logger()))
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("coefficients_file", cfg.Coefficients.File).
		Int("instance_types", len(coeffs.InstancePower)).
		Int("regions", len(coeffs.GridIntensity)).
		Msg("coefficient table loaded")

	return api.NewService(analyzer, cfg.Projection, logger), nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout.
func serve(ctx context.Context, cfg *config.Config, service *api.Service, logger zerolog.Logger) error {
	if cfg.CORS.HasWildcard() {
		logger.Warn().Msg("CORS wildcard origin (*) is insecure; use specific origins in production")
	}
	logger.Debug().
		Strs("allowed_origins", cfg.CORS.AllowedOrigins).
		Int("max_age", cfg.CORS.MaxAge).
		Msg("CORS configuration applied")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      api.NewServer(cfg, service, reg, logger).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Server.ListenAddr).Msg("starting carbon estimator")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
