package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.yaml.in/yaml/v4"

	"github.com/oasguard/oasguard/conformance"
	"github.com/oasguard/oasguard/contract"
	"github.com/oasguard/oasguard/internal/logging"
	"github.com/oasguard/oasguard/metrics"
)

// proxyConfig holds the proxy command configuration. Flags override values
// loaded from the config file.
type proxyConfig struct {
	Listen      string `yaml:"listen"`
	Upstream    string `yaml:"upstream"`
	Spec        string `yaml:"spec"`
	PathPrefix  string `yaml:"pathPrefix"`
	MaxBodySize int64  `yaml:"maxBodySize"`
	LogLevel    string `yaml:"logLevel"`
	LogFormat   string `yaml:"logFormat"`
	MetricsAddr string `yaml:"metricsAddr"`
}

func setupProxyFlags() (*flag.FlagSet, *proxyConfig, *string) {
	fs := flag.NewFlagSet("proxy", flag.ContinueOnError)
	cfg := &proxyConfig{}
	configPath := fs.String("config", "", "path to a YAML config file")

	fs.StringVar(&cfg.Listen, "listen", "", "address to listen on (default :9090)")
	fs.StringVar(&cfg.Upstream, "upstream", "", "upstream base URL to proxy to")
	fs.StringVar(&cfg.Spec, "spec", "", "path or URL of the OpenAPI contract")
	fs.StringVar(&cfg.PathPrefix, "prefix", "", "path prefix stripped before contract lookup")
	fs.Int64Var(&cfg.MaxBodySize, "max-body-size", 0, "body capture limit in bytes (default 10 MiB)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "log format: text or json (default text)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled when empty)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasguard proxy [flags]\n\n")
		_, _ = fmt.Fprintf(output, "Run a reverse proxy that validates passing traffic against an OpenAPI contract.\n")
		_, _ = fmt.Fprintf(output, "Violations are logged; traffic is never blocked or altered.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasguard proxy -spec openapi.yaml -upstream http://localhost:8080 -listen :9090\n")
		_, _ = fmt.Fprintf(output, "  oasguard proxy -config oasguard.yaml\n")
	}

	return fs, cfg, configPath
}

// loadProxyConfig merges the config file (when given) with flag overrides.
func loadProxyConfig(configPath string, overrides *proxyConfig) (*proxyConfig, error) {
	cfg := &proxyConfig{Listen: ":9090"}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if cfg.Listen == "" {
			cfg.Listen = ":9090"
		}
	}

	if overrides.Listen != "" {
		cfg.Listen = overrides.Listen
	}
	if overrides.Upstream != "" {
		cfg.Upstream = overrides.Upstream
	}
	if overrides.Spec != "" {
		cfg.Spec = overrides.Spec
	}
	if overrides.PathPrefix != "" {
		cfg.PathPrefix = overrides.PathPrefix
	}
	if overrides.MaxBodySize != 0 {
		cfg.MaxBodySize = overrides.MaxBodySize
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.LogFormat != "" {
		cfg.LogFormat = overrides.LogFormat
	}
	if overrides.MetricsAddr != "" {
		cfg.MetricsAddr = overrides.MetricsAddr
	}

	if cfg.Upstream == "" {
		return nil, fmt.Errorf("upstream is required (flag -upstream or config key upstream)")
	}
	if cfg.Spec == "" {
		return nil, fmt.Errorf("spec is required (flag -spec or config key spec)")
	}
	return cfg, nil
}

func handleProxy(args []string) error {
	fs, overrides, configPath := setupProxyFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := loadProxyConfig(*configPath, overrides)
	if err != nil {
		fs.Usage()
		return err
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		return fmt.Errorf("invalid upstream URL: %w", err)
	}

	ctx := context.Background()
	doc, err := loadContract(ctx, cfg.Spec)
	if err != nil {
		return err
	}
	registry, err := conformance.NewRegistry(doc)
	if err != nil {
		return err
	}

	reporter := conformance.SlogReporter(logger)
	if cfg.MetricsAddr != "" {
		promReporter := metrics.NewReporter(prometheus.DefaultRegisterer)
		if err := promReporter.Register(); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		reporter = conformance.MultiReporter(reporter, promReporter.Report)

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	opts := []conformance.Option{conformance.WithReporter(reporter)}
	if cfg.PathPrefix != "" {
		opts = append(opts, conformance.WithPathPrefix(cfg.PathPrefix))
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, conformance.WithMaxBodySize(cfg.MaxBodySize))
	}
	validator, err := conformance.NewValidator(registry, contract.NewCompiledChecker(), opts...)
	if err != nil {
		return err
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           conformance.Middleware(validator)(proxy),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("proxy listening", "addr", cfg.Listen, "upstream", cfg.Upstream, "spec", cfg.Spec)
	return server.ListenAndServe()
}

// loadContract loads the contract from a local path or an http(s) URL.
func loadContract(ctx context.Context, spec string) (*contract.Document, error) {
	if u, err := url.Parse(spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return contract.LoadURL(ctx, spec)
	}
	return contract.LoadFile(ctx, spec)
}
