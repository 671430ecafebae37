package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/advisor"
	"github.com/aretw0/advisor/internal/config"
	"github.com/aretw0/advisor/internal/i18n"
	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/pkg/adapters/embedded"
	"github.com/aretw0/advisor/pkg/adapters/file"
	"github.com/aretw0/advisor/pkg/adapters/memory"
	"github.com/aretw0/advisor/pkg/adapters/redis"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/observability"
	"github.com/aretw0/advisor/pkg/ports"
	"github.com/aretw0/advisor/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds everything a command needs, built from one Config.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Engine   *advisor.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry

	closers []func() error
}

// NewApp wires logger, dictionary, engine, session store and metrics.
// Logs go to logOut.
func NewApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger}

	dict, err := loadDictionary(cfg.Data)
	if err != nil {
		return nil, err
	}

	hooks := []domain.LifecycleHooks{}
	if cfg.Log.Level == "debug" {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}
	if cfg.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks = append(hooks, observability.NewMetrics(app.Registry).Hooks())
	}

	opts := []advisor.Option{
		advisor.WithLogger(logger),
		advisor.WithTranslator(dict),
		advisor.WithLifecycleHooks(observability.Combine(hooks...)),
	}
	if cfg.Data.Dir != "" {
		opts = append(opts, advisor.WithDatasetDir(cfg.Data.Dir))
	}
	if cfg.Data.FallbackBrand != "" {
		opts = append(opts, advisor.WithFallbackBrand(domain.Brand(cfg.Data.FallbackBrand)))
	}
	app.Engine, err = advisor.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	store, locker, err := app.newStore(ctx)
	if err != nil {
		return nil, err
	}
	sessOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(locker))
	}
	app.Sessions = session.NewManager(store, sessOpts...)

	logger.Debug("app initialized",
		"store", cfg.Store.Driver,
		"datasets", datasetSource(cfg.Data),
		"metrics", cfg.Metrics.Enabled,
		"config", cfg.LoadedFrom,
	)
	return app, nil
}

func (a *App) newStore(ctx context.Context) (ports.StateStore, ports.DistributedLocker, error) {
	cfg := a.Config.Store
	switch cfg.Driver {
	case "file":
		return file.NewStore(cfg.Dir), nil, nil
	case "redis":
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TTL))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis at %s is unreachable: %w", cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, store.Close)
		if cfg.Locking {
			return store, redis.NewLocker(store.Client(), redis.DefaultPrefix), nil
		}
		return store, nil, nil
	default:
		return memory.NewStore(), nil, nil
	}
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, logging.Format(cfg.Format)), nil
}

// loadDictionary reads data.translations when set, else the embedded
// dictionary of data.language.
func loadDictionary(cfg config.DataConfig) (*i18n.Dictionary, error) {
	if cfg.Translations != "" {
		dict, err := i18n.Load(os.DirFS(filepath.Dir(cfg.Translations)), filepath.Base(cfg.Translations), cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("failed to load translations %s: %w", cfg.Translations, err)
		}
		return dict, nil
	}
	dict, err := i18n.Load(embedded.FS(), "translations/"+cfg.Language+".json", cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("no embedded translations for language %q: %w", cfg.Language, err)
	}
	return dict, nil
}

func datasetSource(cfg config.DataConfig) string {
	if cfg.Dir == "" {
		return "embedded"
	}
	return cfg.Dir
}
