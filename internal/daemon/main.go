// Package daemon opens the database and assembles the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/dsn"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/logger"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
	"github.com/xanhenergy/xanhenergy-admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{
		// map driver duplicate-key errors to gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.GormEngine).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.Post{},
		&models.Project{},
		&models.Partner{},
		&models.Contact{},
		&models.Setting{},
		&models.Image{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	store, err := upload.NewStore(cfg.Upload.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Upload.Path).Msg("failed to create uploads store")
		return nil
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, store),
	}
}

func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case dsn.EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg))
	case dsn.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	default:
		return sqlite.Open(dsn.Create(cfg))
	}
}
