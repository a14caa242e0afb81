package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/collector"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/config"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/provider"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/refresh"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/store"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if path := c.String("database"); path != "" {
		cfg.DatabasePath = path
	}
	return cfg, nil
}

func openStore(c *cli.Context) (*config.Config, *store.SQLiteStore, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

func initCommand(c *cli.Context) error {
	_, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	return refresh.Bootstrap(c.Context, s)
}

func refreshCommand(c *cli.Context) error {
	cfg, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := refresh.Bootstrap(ctx, s); err != nil {
		return err
	}

	metricsPort := c.Int("metrics-port")
	if metricsPort == 0 && cfg.MetricsEnabled {
		metricsPort = cfg.MetricsPort
	}
	if metricsPort > 0 {
		server := startMetricsServer(metricsPort)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				klog.ErrorS(err, "Error shutting down metrics server")
			}
		}()
	}

	clients := provider.NewClients(cfg.Credentials(), cfg.NewRegionMapper(),
		provider.WithTimeout(cfg.HTTPTimeout),
		provider.WithMaxAttempts(cfg.ProviderMaxAttempts))
	refresher := refresh.New(collector.New(clients...), s)

	interval := cfg.RefreshInterval
	if c.IsSet("interval") {
		interval = c.Duration("interval")
	}

	if interval > 0 {
		klog.InfoS("Starting periodic refresh", "interval", interval)
		err := refresher.RunEvery(ctx, interval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	summary, err := refresher.Run(ctx)
	if summary != nil {
		if perr := render(c, summary); perr != nil {
			return perr
		}
	}
	return err
}

func startMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		klog.InfoS("Starting metrics server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "Metrics server error")
		}
	}()
	return server
}

type continentGroup struct {
	Continent regionmapper.Continent `json:"continent"`
	Name      string                 `json:"name"`
	Regions   []store.RegionView     `json:"regions"`
}

func regionsCommand(c *cli.Context) error {
	_, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	zones, err := s.ListZones(c.Context, c.StringSlice("provider")...)
	if err != nil {
		return err
	}

	if !c.Bool("by-continent") {
		return render(c, zones)
	}

	grouped := regionmapper.GroupByContinent(zones, func(z store.RegionView) string { return z.CountryCode })
	groups := []continentGroup{}
	for _, continent := range regionmapper.OrderedContinents(grouped) {
		groups = append(groups, continentGroup{
			Continent: continent,
			Name:      regionmapper.ContinentName(continent),
			Regions:   grouped[continent],
		})
	}
	return render(c, groups)
}

func countriesCommand(c *cli.Context) error {
	_, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if name := c.String("provider"); name != "" {
		codes, err := s.CountriesByProvider(c.Context, name)
		if err != nil {
			return err
		}
		return render(c, codes)
	}

	coverage, err := s.CountriesWithProviders(c.Context, c.String("continent"))
	if err != nil {
		return err
	}
	return render(c, coverage)
}

func providersCommand(c *cli.Context) error {
	_, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	providers, err := s.ListProviders(c.Context)
	if err != nil {
		return err
	}
	return render(c, providers)
}

func logsCommand(c *cli.Context) error {
	_, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	logs, err := s.RecentLogs(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	return render(c, logs)
}

func statsCommand(c *cli.Context) error {
	_, s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats(c.Context)
	if err != nil {
		return err
	}
	return render(c, stats)
}
