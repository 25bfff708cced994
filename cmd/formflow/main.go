package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

type flags struct {
	config      string
	baseURL     string
	schema      string
	renderer    string
	output      string
	roll        string
	name        string
	register    bool
	logLevel    string
	metricsAddr string
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "config file (yaml, json or toml)")
	flag.StringVar(&f.baseURL, "base-url", "", "form service base URL")
	flag.StringVar(&f.schema, "schema", "", "offline schema file or URL; skips the form service")
	flag.StringVar(&f.renderer, "renderer", "", "renderer to use (tui or html)")
	flag.StringVar(&f.output, "output", "", "output file for html (stdout if empty)")
	flag.StringVar(&f.roll, "roll", "", "roll number used by the html renderer")
	flag.StringVar(&f.name, "name", "", "name used with -register")
	flag.BoolVar(&f.register, "register", false, "register -roll before logging in")
	flag.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&f.metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "formflow: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	applyFlags(&cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	base := logging.New(cfg.Log.Level, logging.ParseFormat(cfg.Log.Format))
	defer func() { _ = base.Sync() }()
	logger := base.Sugar()

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)
	if f.metricsAddr != "" {
		go serveMetrics(f.metricsAddr, registry, logger)
	}

	sessionOptions := []session.Option{
		session.WithLogger(logger.Named("session")),
		session.WithMetrics(collector),
		session.WithTransitionDelay(cfg.Wizard.TransitionDelay.Std()),
		session.WithSink(session.SinkFunc(printPayload)),
	}

	ctrl, err := newController(ctx, cfg, logger, sessionOptions)
	if err != nil {
		return err
	}

	switch cfg.Wizard.Renderer {
	case "html":
		return renderHTML(ctx, ctrl, f)
	default:
		return tui.NewWizard(ctrl, tui.WithLogger(logger.Named("tui"))).Run(ctx)
	}
}

func applyFlags(cfg *config.Config, f flags) {
	if f.baseURL != "" {
		cfg.Service.BaseURL = f.baseURL
	}
	if f.schema != "" {
		cfg.Wizard.Schema = f.schema
	}
	if f.renderer != "" {
		cfg.Wizard.Renderer = strings.ToLower(f.renderer)
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
}

func newController(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger, options []session.Option) (*session.Controller, error) {
	if cfg.Wizard.Schema == "" {
		return formflow.NewHTTPSession([]client.Option{
			client.WithBaseURL(cfg.Service.BaseURL),
			client.WithTimeout(cfg.Service.Timeout.Std()),
			client.WithRetries(cfg.Service.Retries),
			client.WithRetryInterval(cfg.Service.RetryInterval.Std()),
			client.WithLogger(logger.Named("client")),
		}, options...), nil
	}

	src, err := schema.ParseSource(cfg.Wizard.Schema)
	if err != nil {
		return nil, err
	}
	return formflow.NewOfflineSession(ctx, src, formflow.LoaderOptions{
		AllowHTTP:      true,
		RequestTimeout: cfg.Service.Timeout.Std(),
		Logger:         logger.Named("loader"),
	}, options...)
}

func renderHTML(ctx context.Context, ctrl *session.Controller, f flags) error {
	if f.register {
		if err := ctrl.Register(ctx, f.roll, f.name); err != nil {
			return fmt.Errorf("%s: %w", ctrl.Snapshot().RegistrationError, err)
		}
	} else if err := ctrl.Login(ctx, f.roll); err != nil {
		return fmt.Errorf("%s: %w", ctrl.Snapshot().LoginError, err)
	}

	registry, err := formflow.NewRegistry()
	if err != nil {
		return err
	}
	out, err := formflow.RenderSection(ctx, registry, "html", ctrl)
	if err != nil {
		return err
	}

	if f.output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(f.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Form written to %s\n", f.output)
	return nil
}

func printPayload(_ context.Context, submission session.Submission) error {
	data, err := json.MarshalIndent(submission.Payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	logger.Infow("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("metrics server stopped", "error", err)
	}
}
