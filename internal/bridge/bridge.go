// Package bridge assembles the CMS data-layer adapter: the router, both
// store clients, the adapter core, the migration replicator and the HTTP
// surface, wired from environment configuration.
package bridge

import (
	"context"

	httpadapter "cms-bridge/internal/bridge/adapter/http"
	"cms-bridge/internal/bridge/adapter/persistence/mongodb"
	"cms-bridge/internal/bridge/adapter/persistence/mysql"
	"cms-bridge/internal/bridge/adapter/progress"
	"cms-bridge/internal/bridge/config"
	"cms-bridge/internal/bridge/domain/repository"
	"cms-bridge/internal/bridge/router"
	"cms-bridge/internal/bridge/usecase"
	"cms-bridge/internal/shared/eventbus"
	"cms-bridge/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Module is the assembled bridge. Construct it once at startup, Connect
// it, then mount its routes on the serving app.
type Module struct {
	Config     *config.Config
	Router     *router.Router
	Core       *usecase.BridgeUsecase
	Replicator *usecase.Replicator
	Handler    *httpadapter.AdminHandler
	EventBus   *eventbus.EventBus
	Logger     logger.Logger

	redisClient *redis.Client
}

// NewModule loads configuration from the environment and wires the bridge.
func NewModule(log logger.Logger) (*Module, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewModuleWithConfig(cfg, log)
}

// NewModuleWithConfig wires the bridge from the given configuration.
func NewModuleWithConfig(cfg *config.Config, log logger.Logger) (*Module, error) {
	if log == nil {
		log = logger.NewLogger()
	}

	mapping, err := cfg.CollectionBackends()
	if err != nil {
		return nil, err
	}
	global, err := cfg.GlobalBackends()
	if err != nil {
		return nil, err
	}

	rt := router.New(router.Mode(cfg.Mode), mapping, global)
	bus := eventbus.NewEventBus(log)

	// The legacy pool is only constructed when some collection can route
	// there; symmetrically for the primary client.
	var legacy repository.LegacyStore
	if rt.NeedsLegacy() {
		legacy = mysql.NewLegacyStore(cfg.Legacy, log)
	}
	var primary repository.DocumentStore
	if rt.NeedsPrimary() || rt.Mode() == router.ModePrimaryOnly {
		primary = mongodb.NewDocumentStore(cfg.Primary, log)
	}

	core := usecase.NewBridgeUsecase(rt, legacy, primary, bus, log)
	replicator := usecase.NewReplicator(core, core.Primary(), bus, cfg.MigrationBatchSize, log)
	handler := httpadapter.NewAdminHandler(core, replicator, core, log)

	m := &Module{
		Config:     cfg,
		Router:     rt,
		Core:       core,
		Replicator: replicator,
		Handler:    handler,
		EventBus:   bus,
		Logger:     log,
	}

	if cfg.Redis.Enabled {
		m.redisClient = config.NewRedisClient(cfg.Redis)
		progress.NewRedisPublisher(m.redisClient, cfg.Redis.Channel, log).Subscribe(bus)
		log.Infof("Migration progress publisher enabled on channel %s", cfg.Redis.Channel)
	}

	return m, nil
}

// Connect opens the store connections the configured mode requires and
// initializes the primary store's indexes when it is in play.
func (m *Module) Connect(ctx context.Context) error {
	if err := m.Core.Connect(ctx); err != nil {
		return err
	}
	return m.Core.Init(ctx)
}

// RegisterRoutes mounts the document API and the admin surface.
func (m *Module) RegisterRoutes(app *fiber.App) {
	m.Handler.RegisterRoutes(app)
}

// Close releases the stores and the progress publisher's Redis client.
func (m *Module) Close(ctx context.Context) error {
	err := m.Core.Close(ctx)
	if m.redisClient != nil {
		if cerr := m.redisClient.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
