// Package app wires repositories, storage and services from configuration.
// Both the HTTP server and the brokerctl tool start from here.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	rediscache "brokerdesk/internal/cache/redis"
	"brokerdesk/internal/config"
	"brokerdesk/internal/docpath"
	"brokerdesk/internal/email/noop"
	"brokerdesk/internal/email/ses"
	"brokerdesk/internal/metrics"
	"brokerdesk/internal/port"
	"brokerdesk/internal/repository/postgres"
	"brokerdesk/internal/service"
	"brokerdesk/internal/storage/local"
	s3storage "brokerdesk/internal/storage/s3"
)

// App holds the wired dependencies.
type App struct {
	Config *config.Config
	DB     *sqlx.DB
	cache  *rediscache.Cache

	Users   port.UserRepository
	Clients port.ClientRepository
	Storage port.ObjectStorage

	Auth      service.AuthService
	UserSvc   service.UserService
	ClientSvc service.ClientService
	Documents service.DocumentService
	Stats     service.StatsService
}

// New connects to the database and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &App{Config: cfg, DB: db}

	a.Storage, err = NewStorage(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	mailer, err := newMailer(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []docpath.Option{docpath.WithObserver(metrics.ObserveResolution)}
	if cfg.Cache.Enabled() {
		c, err := rediscache.NewCache(ctx, &cfg.Cache)
		if err != nil {
			// The cache only saves storage probes; run without it.
			log.Printf("app.New: resolution cache disabled: %v", err)
		} else {
			a.cache = c
			opts = append(opts, docpath.WithCache(c))
		}
	}
	resolver := docpath.NewResolver(a.Storage, opts...)

	// Initialize repositories
	a.Users = postgres.NewUserRepo(db)
	a.Clients = postgres.NewClientRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize services
	a.Auth = service.NewAuthService(a.Users, cfg.JWT)
	a.UserSvc = service.NewUserService(a.Users, mailer)
	a.Documents = service.NewDocumentService(a.Clients, a.Storage, resolver, docpath.NewURLBuilder(cfg.Server.PublicURL), &cfg.Storage)
	a.ClientSvc = service.NewClientService(a.Clients, a.Documents)
	a.Stats = service.NewStatsService(statsRepo, a.Users)
	return a, nil
}

// NewStorage returns the configured document storage backend.
func NewStorage(cfg *config.Config) (port.ObjectStorage, error) {
	if cfg.Storage.UsesS3() {
		s, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Printf("app.NewStorage: using S3 bucket %s", cfg.S3.Bucket)
		return s, nil
	}
	s, err := local.NewLocalStorage(cfg.Storage.LocalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	log.Printf("app.NewStorage: using local directory %s", cfg.Storage.LocalDir)
	return s, nil
}

func newMailer(ctx context.Context, cfg *config.Config) (port.EmailSender, error) {
	if cfg.Email.Provider == "ses" {
		m, err := ses.NewSESSender(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES: %w", err)
		}
		return m, nil
	}
	return noop.NewNoopSender(cfg.Email.FrontendURL), nil
}

// Cache returns the resolution cache, or nil when it is disabled.
func (a *App) Cache() *rediscache.Cache {
	return a.cache
}

// Close releases the database and cache connections.
func (a *App) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("app.Close: redis: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("app.Close: database: %v", err)
	}
}
