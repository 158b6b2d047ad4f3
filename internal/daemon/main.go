// Package daemon wires the database, storage backends and web service
// together and runs them.
package daemon

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/config"
	"github.com/mf010/dynamic-website-sub000/internal/db/dsn"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/security/ratelimit"
	"github.com/mf010/dynamic-website-sub000/internal/settings"
	"github.com/mf010/dynamic-website-sub000/internal/web"
	"github.com/mf010/dynamic-website-sub000/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(dsn.Dialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Setting{},
		&models.News{},
		&models.Page{},
		&models.Service{},
		&models.Slider{},
		&models.Contact{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	storage := newStorage(cfg)
	session.Init(storage)

	var cache fiber.Storage
	if cfg.Webserver.CacheEnabled {
		cache = storage
	}
	settingsService := settings.New(db, cache, settings.DefaultTTL)

	store, err := media.NewStore(cfg.Media.Root, cfg.Media.BaseURL, cfg.Media.MaxUploadSize)
	if err != nil {
		log.Fatal().Err(err).Str("root", cfg.Media.Root).Msg("failed to open media store")
		return nil
	}

	limiter, err := ratelimit.New(
		storage,
		cfg.Security.MaxFailedAttempts,
		time.Duration(cfg.Security.AttemptWindow)*time.Minute,
		time.Duration(cfg.Security.BlockDuration)*time.Minute,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create rate limiter")
		return nil
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, settingsService, store, limiter),
	}
}

// newStorage returns the fiber key/value storage matching the configured
// database engine. Sessions, the settings cache and the rate limiter
// counters share it. The sqlite engine gets in-process storage; a
// single-file database has no second node to share state with.
func newStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: "postgres://" + cfg.DB.User + ":" + cfg.DB.Password +
				"@" + fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port) + "/" + cfg.DB.Name,
			Table: "kv_storage",
		})
	case config.EngineSQLite:
		return sessionmemory.New()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "kv_storage",
		})
	}
}
