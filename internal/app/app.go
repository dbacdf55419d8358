package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/services/backup"
	"github.com/bobmcallan/tradejournal/internal/services/impexp"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
	"github.com/bobmcallan/tradejournal/internal/storage"
)

// App holds the store, the journal registry and background jobs.
// It is the shared core used by both cmd/tradejournal-server and
// cmd/tradejournal.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Store       interfaces.RemoteStore
	Registry    *journal.Registry
	StartupTime time.Time

	scheduler       *Scheduler
	warmCacheCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath returns configPath, TJ_CONFIG, tradejournal.toml next to
// the binary, or config/tradejournal.toml, in that order.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("TJ_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "tradejournal.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/tradejournal.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and opens the configured store.
// configPath may be empty, in which case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewAppWithConfig(config)
}

// NewAppWithConfig opens the store for an already loaded configuration.
func NewAppWithConfig(config *common.Config) (*App, error) {
	startupStart := time.Now()
	binDir := getBinaryDir()

	// Resolve relative paths to binary directory
	if config.Storage.Backend != common.BackendSurrealDB && config.Storage.Backend != common.BackendMemory &&
		config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}
	if config.Backup.Dir != "" && !filepath.IsAbs(config.Backup.Dir) {
		config.Backup.Dir = filepath.Join(binDir, config.Backup.Dir)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := storage.NewRemoteStore(context.Background(), logger.WithComponent("storage"), config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Store:       store,
		Registry:    journal.NewRegistry(store, logger.WithComponent("journal")),
		StartupTime: startupStart,
	}

	logger.Info().
		Str("storage", config.Storage.Describe()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Owners returns the tenant id and every configured user id, deduplicated.
func (a *App) Owners() []string {
	owners := []string{a.Config.Tenant.ID}
	for _, u := range a.Config.Auth.Users {
		if !slices.Contains(owners, u.ID) {
			owners = append(owners, u.ID)
		}
	}
	return owners
}

// Journal returns the loaded cache for owner.
func (a *App) Journal(ctx context.Context, owner string) (*journal.Cache, error) {
	return a.Registry.Get(ctx, owner)
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, cancel warm cache, close caches, close storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.Registry != nil {
		a.Registry.Close()
		a.Registry = nil
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close store")
		}
		a.Store = nil
	}
}

// StartWarmCache loads the configured owners in the background so the first
// request does not pay for it.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.Registry, a.Owners(), a.Logger)
	}()
}

// NewBackupSink returns the S3 sink when a bucket is configured and the
// directory sink otherwise.
func (a *App) NewBackupSink(ctx context.Context) (interfaces.BackupSink, error) {
	if a.Config.Backup.S3.Bucket != "" {
		return backup.NewS3Sink(ctx, a.Logger.WithComponent("backup"), a.Config.Backup.S3)
	}
	return backup.NewFileSink(a.Logger.WithComponent("backup"), a.Config.Backup.Dir)
}

// StartBackups schedules the backup job when backup.schedule is set.
func (a *App) StartBackups() error {
	if !a.Config.Backup.Enabled() {
		a.Logger.Info().Msg("Backups disabled (no schedule)")
		return nil
	}

	format, err := impexp.ParseFormat(a.Config.Backup.Format)
	if err != nil {
		return err
	}
	sink, err := a.NewBackupSink(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create backup sink: %w", err)
	}

	job := backup.NewJob(a.Registry, a.Owners(), sink, format, a.Logger.WithComponent("backup"))
	s := NewScheduler(a.Logger)
	if err := s.AddJob(a.Config.Backup.Schedule, job); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", a.Config.Backup.Schedule, err)
	}
	s.Start()
	a.scheduler = s
	return nil
}
