// Filter Workshop - browse image filters and tweak their parameters with a
// live preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/engine"
	"filter-workshop/internal/io"
	"filter-workshop/internal/metrics"
	"filter-workshop/internal/pipeline"
)

const (
	AppName    = "Filter Workshop"
	AppID      = "io.filterworkshop.app"
	AppVersion = "1.0.0"
)

type options struct {
	debug       bool
	headless    bool
	catalogPath string
	filter      string
	input       string
	output      string
	debounce    time.Duration
	timeout     time.Duration
	metricsAddr string
	values      assignments
}

func main() {
	var opts options
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug mode with verbose logging")
	flag.BoolVar(&opts.headless, "headless", false, "Render a single image without opening a window")
	flag.StringVar(&opts.catalogPath, "catalog", "", "Path to a YAML filter catalog (default: built-in)")
	flag.StringVar(&opts.filter, "filter", "", "Filter to select on startup")
	flag.StringVar(&opts.input, "input", "", "Image used for image parameters")
	flag.StringVar(&opts.output, "output", "output.png", "Where -headless writes the result")
	flag.DurationVar(&opts.debounce, "debounce", pipeline.DefaultDebounceWindow, "Debounce window for parameter edits")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "How long -headless waits for a result")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flag.Var(&opts.values, "set", "Parameter value as name=value (repeatable)")
	flag.Parse()

	logger := initLogger(opts.debug)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": opts.debug,
		"headless":   opts.headless,
	}).Infof("Starting %s", AppName)

	if err := run(logger, opts); err != nil {
		logger.WithError(err).Error("Filter Workshop failed")
		os.Exit(1)
	}
	logger.Info("Application shutting down gracefully")
}

func run(logger *logrus.Logger, opts options) error {
	cat, err := loadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	eng := engine.New(logger.WithField("component", "engine"))
	for _, name := range cat.Names() {
		if cat.Availability(name).Available && !eng.Supports(name) {
			logger.WithField("filter", name).Warn("Catalog filter has no engine implementation")
		}
	}

	collector := metrics.NewCollector()
	if opts.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collector)
		go serveMetrics(logger, opts.metricsAddr, registry)
	}

	p, err := pipeline.New(pipeline.Config{
		Engine:         eng,
		Clock:          clock.WallClock,
		Logger:         logger,
		Metrics:        collector,
		DebounceWindow: opts.debounce,
	})
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}
	defer p.Close()

	loader := io.NewImageLoader(logger.WithField("component", "io"))

	if opts.headless {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		ctx, cancelTimeout := context.WithTimeout(ctx, opts.timeout)
		defer cancelTimeout()
		return runHeadless(ctx, logger, cat, p, loader, opts)
	}
	return runGUI(logger, cat, p, loader, opts)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func serveMetrics(logger logrus.FieldLogger, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	logger.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Error("Metrics server stopped")
	}
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
