package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homefleet/safety-monitor/internal/pkg/application/alerts"
	"github.com/homefleet/safety-monitor/internal/pkg/application/monitor"
	"github.com/homefleet/safety-monitor/internal/pkg/application/reconcile"
	"github.com/homefleet/safety-monitor/internal/pkg/collectors"
	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/notifications"
	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/storage"
	"github.com/homefleet/safety-monitor/internal/pkg/presentation/api"
	"github.com/homefleet/safety-monitor/internal/pkg/presentation/router"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"gopkg.in/yaml.v2"
)

const serviceName string = "safety-monitor"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	configurationFile
	apiKey

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode

	pushoverAppToken
	pushoverUserKey
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",

		configurationFile: "/opt/safety-monitor/config/config.yaml",
		apiKey:            "",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "safetymonitor",
		dbSSLMode:  "disable",

		pushoverAppToken: "",
		pushoverUserKey:  "",
	}
}

type appConfig struct {
	Monitor struct {
		CollectionIntervalMinutes int    `yaml:"collection_interval_minutes"`
		ReportTime                string `yaml:"report_time"`
		Timezone                  string `yaml:"timezone"`
	} `yaml:"monitor"`

	Properties []propertyConfig `yaml:"properties"`

	Alerts   alerts.Config        `yaml:"alerts"`
	Pushover notifications.Config `yaml:"pushover"`
}

type propertyConfig struct {
	ID         string                `yaml:"id"`
	Name       string                `yaml:"name"`
	Enabled    *bool                 `yaml:"enabled"`
	Collectors []collectors.Config   `yaml:"collectors"`
	Alerts     alerts.PropertyConfig `yaml:"alerts"`
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, "json")
	defer cleanup()

	cfgFile, err := os.Open(flags[configurationFile])
	exitIf(err, logger, "could not open configuration file")

	cfg, err := parseConfigFile(cfgFile)
	exitIf(err, logger, "could not parse configuration file")

	err = run(ctx, flags, cfg)
	exitIf(err, logger, "service terminated")
}

func run(ctx context.Context, flags flagMap, cfg *appConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.GetFromContext(ctx)

	s, err := storage.New(ctx, storage.NewConfig(
		flags[dbHost], flags[dbUser], flags[dbPassword],
		flags[dbPort], flags[dbName], flags[dbSSLMode],
	))
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer s.Close()

	if err := s.Initialize(ctx); err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}

	messenger, err := messaging.Initialize(ctx, messaging.LoadConfiguration(ctx, serviceName, log))
	if err != nil {
		return fmt.Errorf("could not init messenger: %w", err)
	}
	messenger.Start()
	defer messenger.Close()

	pushoverCfg := cfg.Pushover
	if flags[pushoverAppToken] != "" {
		pushoverCfg.AppToken = flags[pushoverAppToken]
	}
	if flags[pushoverUserKey] != "" {
		pushoverCfg.UserKey = flags[pushoverUserKey]
	}
	notifier := notifications.NewPushover(pushoverCfg)

	alertCfg := &cfg.Alerts
	for _, p := range cfg.Properties {
		pc := p.Alerts
		pc.Name = p.Name
		alertCfg.SetPropertyConfig(p.ID, pc)
	}

	alertSvc := alerts.New(s, notifier, messenger, alertCfg)

	runners, properties, err := buildRunners(ctx, cfg, s)
	if err != nil {
		return err
	}

	mon := monitor.New(runners, alertSvc, notifier, s, monitor.Config{
		Interval:   time.Duration(cfg.Monitor.CollectionIntervalMinutes) * time.Minute,
		ReportTime: cfg.Monitor.ReportTime,
		Timezone:   cfg.Monitor.Timezone,
	})
	mon.Start(ctx)
	defer mon.Stop()

	r := router.New(serviceName)
	api.RegisterHandlers(ctx, r, flags[apiKey], properties, s, alertSvc, alertCfg, mon)

	apiAddress := fmt.Sprintf("%s:%s", flags[listenAddress], flags[servicePort])
	webServer := &http.Server{Addr: apiAddress, Handler: r}

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting to listen for incoming connections", "address", apiAddress)

		if err := webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return webServer.Shutdown(shutdownCtx)
}

func buildRunners(ctx context.Context, cfg *appConfig, s *storage.Storage) ([]*reconcile.PropertyRunner, []api.Property, error) {
	log := logging.GetFromContext(ctx)

	runners := make([]*reconcile.PropertyRunner, 0, len(cfg.Properties))
	properties := make([]api.Property, 0, len(cfg.Properties))

	for _, p := range cfg.Properties {
		if p.Enabled != nil && !*p.Enabled {
			log.Info("property disabled, skipping", "property_id", p.ID)
			continue
		}

		propertyCollectors := make([]reconcile.Collector, 0, len(p.Collectors))
		for _, cc := range p.Collectors {
			c, err := collectors.New(p.ID, cc)
			if err != nil {
				return nil, nil, fmt.Errorf("property %s: %w", p.ID, err)
			}
			propertyCollectors = append(propertyCollectors, c)
		}

		name := p.Name
		if name == "" {
			name = p.ID
		}

		runners = append(runners, reconcile.NewPropertyRunner(p.ID, name, propertyCollectors, s))
		properties = append(properties, api.Property{ID: p.ID, Name: name})
	}

	log.Info("loaded properties", "count", len(runners))

	return runners, properties, nil
}

func parseConfigFile(cfgFile io.ReadCloser) (*appConfig, error) {
	defer cfgFile.Close()

	b, err := io.ReadAll(cfgFile)
	if err != nil {
		return nil, err
	}

	cfg := &appConfig{}
	err = yaml.Unmarshal(b, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Monitor.CollectionIntervalMinutes <= 0 {
		cfg.Monitor.CollectionIntervalMinutes = 15
	}

	return cfg, nil
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault

	flags[listenAddress] = envOrDef(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef(ctx, "SERVICE_PORT", flags[servicePort])
	flags[apiKey] = envOrDef(ctx, "MONITOR_API_KEY", flags[apiKey])

	flags[dbHost] = envOrDef(ctx, "POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef(ctx, "POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef(ctx, "POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef(ctx, "POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef(ctx, "POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef(ctx, "POSTGRES_SSLMODE", flags[dbSSLMode])

	flags[pushoverAppToken] = envOrDef(ctx, "PUSHOVER_APP_TOKEN", flags[pushoverAppToken])
	flags[pushoverUserKey] = envOrDef(ctx, "PUSHOVER_USER_KEY", flags[pushoverUserKey])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("config", "monitor configuration file", apply(configurationFile))
	flag.Func("port", "service port", apply(servicePort))
	flag.Parse()

	return ctx, flags
}

func exitIf(err error, logger *slog.Logger, msg string, args ...any) {
	if err != nil {
		logger.With(args...).Error(msg, "err", err.Error())
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
