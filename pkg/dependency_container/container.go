package dependency_container

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/NeuralTrust/TrustMod/pkg/app/analysis"
	"github.com/NeuralTrust/TrustMod/pkg/app/consensus"
	"github.com/NeuralTrust/TrustMod/pkg/app/executor"
	"github.com/NeuralTrust/TrustMod/pkg/app/pipeline"
	"github.com/NeuralTrust/TrustMod/pkg/app/room"
	appTrust "github.com/NeuralTrust/TrustMod/pkg/app/trust"
	"github.com/NeuralTrust/TrustMod/pkg/config"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	domainTrust "github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	handlers "github.com/NeuralTrust/TrustMod/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/TrustMod/pkg/handlers/websocket"
	"github.com/NeuralTrust/TrustMod/pkg/infra/auditlogs"
	"github.com/NeuralTrust/TrustMod/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/TrustMod/pkg/infra/bedrock"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/subscriber"
	"github.com/NeuralTrust/TrustMod/pkg/infra/database"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustMod/pkg/infra/notifier"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	providersFactory "github.com/NeuralTrust/TrustMod/pkg/infra/providers/factory"
	"github.com/NeuralTrust/TrustMod/pkg/infra/ratelimit"
	"github.com/NeuralTrust/TrustMod/pkg/infra/repository"
	"github.com/NeuralTrust/TrustMod/pkg/infra/transport"
	"github.com/NeuralTrust/TrustMod/pkg/server/middleware"
	"github.com/NeuralTrust/TrustMod/pkg/server/router"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Cache            cache.Client
	DB               *database.DB
	RedisListener    cache.EventListener
	RedisPublisher   cache.EventPublisher
	Gateway          analysis.Gateway
	TrustEngine      appTrust.Engine
	PolicyFinder     room.PolicyFinder
	PolicyUpdater    room.PolicyUpdater
	Pipeline         pipeline.Pipeline
	Hub              *transport.Hub
	JWTManager       jwt.Manager
	HandlerTransport *handlers.HandlerTransport
	Routers          []router.ServerRouter

	closers []func() error
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	// DB and Cache are built from Cfg when nil.
	DB    *database.DB
	Cache cache.Client
}

func NewContainer(ctx context.Context, di ContainerDI) (*Container, error) {
	c := &Container{}
	if err := c.build(ctx, di); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context, di ContainerDI) error {
	cfg, logger := di.Cfg, di.Logger

	cacheInstance := di.Cache
	if cacheInstance == nil {
		var err error
		cacheInstance, err = cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		c.closers = append(c.closers, cacheInstance.Close)
	}
	c.Cache = cacheInstance

	db := di.DB
	if db == nil {
		var err error
		db, err = database.NewDB(logger, &database.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			DBName:       cfg.Database.DBName,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.closers = append(c.closers, db.Close)
	}
	c.DB = db

	// repository
	roomPolicyRepository := repository.NewRoomPolicyRepository(db.DB)
	auditRepository := repository.NewAuditRepository(db.DB)

	// events
	c.RedisPublisher = cache.NewRedisEventPublisher(cacheInstance, cache.EventsChannel)
	c.RedisListener = cache.NewRedisEventListener(logger, cacheInstance, event.Registry)

	// rooms
	defaults, err := roomDefaults(cfg.Rooms.Default)
	if err != nil {
		return err
	}
	roomCache := cacheInstance.CreateTTLMap(cache.RoomPolicyTTLName, cfg.Rooms.CacheTTL)
	c.PolicyFinder = room.NewPolicyFinder(roomPolicyRepository, roomCache, defaults, logger)
	c.PolicyUpdater = room.NewPolicyUpdater(roomPolicyRepository, roomCache, c.RedisPublisher, logger)

	// trust
	profileCache, activityStore := trustStores(cfg.Trust, cacheInstance)
	c.TrustEngine = appTrust.NewEngine(
		logger,
		profileCache,
		activityStore,
		appTrust.WithStaleness(cfg.Trust.Staleness),
		appTrust.WithActivityThreshold(cfg.Trust.ActivityThreshold),
	)

	// subscribers
	cache.RegisterEventSubscriber[event.DeleteRoomPolicyCacheEvent](
		c.RedisListener,
		subscriber.NewDeleteRoomPolicyCacheEventSubscriber(logger, roomCache),
	)
	cache.RegisterEventSubscriber[event.DeleteTrustProfileCacheEvent](
		c.RedisListener,
		subscriber.NewDeleteTrustProfileCacheEventSubscriber(logger, profileCache),
	)

	limiter := ratelimit.NewMemoryLimiter()
	if cfg.RateLimit.Backend == config.BackendRedis {
		limiter = ratelimit.NewRedisLimiter(cacheInstance.RedisClient(), logger)
	}

	// providers
	httpClient := httpx.NewClient(logger)
	locator, err := c.providerLocator(ctx, cfg, logger, httpClient)
	if err != nil {
		return err
	}
	registrations, err := buildRegistrations(cfg.Providers, locator)
	if err != nil {
		return err
	}
	priorities, err := buildPriorities(cfg.Gateway.Priorities)
	if err != nil {
		return err
	}
	c.Gateway, err = analysis.NewGateway(
		logger,
		registrations,
		analysis.Settings{
			Priorities:       priorities,
			DefaultTimeout:   cfg.Gateway.DefaultTimeout,
			FailureThreshold: cfg.Gateway.FailureThreshold,
			FailureWindow:    cfg.Gateway.FailureWindow,
			Cooldown:         cfg.Gateway.Cooldown,
			MaxProviders:     cfg.Gateway.MaxProviders,
		},
		analysis.WithLimiter(limiter),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize provider gateway: %w", err)
	}

	// chat transport
	var chatTransport moderation.ChatTransport
	switch cfg.Transport.Type {
	case config.TransportWebsocket:
		c.Hub = transport.NewHub(logger, cfg.Transport.MaxBridges)
		chatTransport = c.Hub.Transport()
	case config.TransportWebhook, "":
		chatTransport = transport.NewWebhookTransport(transport.WebhookConfig{
			URL:   cfg.Transport.WebhookURL,
			Token: cfg.Transport.Token,
		}, httpClient)
	default:
		return fmt.Errorf("unsupported transport type %q", cfg.Transport.Type)
	}

	escalators := []moderation.Escalator{notifier.NewLogEscalator(logger)}
	if cfg.Notifier.SlackWebhookURL != "" {
		escalators = append(escalators, notifier.NewSlackEscalator(cfg.Notifier.SlackWebhookURL, httpClient))
	}
	if cfg.Notifier.ViaTransport {
		escalators = append(escalators, notifier.NewTransportEscalator(chatTransport))
	}
	escalator := notifier.NewMultiEscalator(escalators...)

	exec := executor.NewExecutor(logger, chatTransport, escalator, executor.WithRetryInterval(cfg.Executor.RetryInterval))

	auditSink, err := c.auditSink(cfg.Audit, logger, auditRepository)
	if err != nil {
		return err
	}

	c.Pipeline = pipeline.NewPipeline(
		logger,
		pipeline.Config{
			DefaultAnalysisType: moderation.AnalysisType(cfg.Pipeline.DefaultAnalysisType),
			MaxProviders:        cfg.Pipeline.MaxProviders,
			RequireConsensus:    cfg.Pipeline.RequireConsensus,
		},
		limiter,
		c.Gateway,
		consensus.NewBuilder(),
		c.TrustEngine,
		c.PolicyFinder,
		exec,
		auditSink,
	)

	// Handler Transport
	c.HandlerTransport = &handlers.HandlerTransport{
		GetVersionHandler:             handlers.NewGetVersionHandler(logger),
		ModerateHandler:               handlers.NewModerateHandler(logger, c.Pipeline),
		ListAuditsHandler:             handlers.NewListAuditsHandler(logger, auditRepository),
		GetTrustProfileHandler:        handlers.NewGetTrustProfileHandler(logger, c.TrustEngine),
		RecordActivityHandler:         handlers.NewRecordActivityHandler(logger, c.TrustEngine),
		InvalidateTrustProfileHandler: handlers.NewInvalidateTrustProfileHandler(logger, c.TrustEngine, c.RedisPublisher),
		GetRoomPolicyHandler:          handlers.NewGetRoomPolicyHandler(logger, c.PolicyFinder),
		UpdateRoomPolicyHandler:       handlers.NewUpdateRoomPolicyHandler(logger, c.PolicyUpdater),
		ResetRateLimitHandler:         handlers.NewResetRateLimitHandler(logger, limiter),
		ListProvidersHandler:          handlers.NewListProvidersHandler(logger, c.Gateway),
		UpdateProviderHandler:         handlers.NewUpdateProviderHandler(logger, c.Gateway),
	}

	// middleware
	global := middleware.NewTransport(
		middleware.NewPanicRecoverMiddleware(logger),
	)
	if cfg.Metrics.Enabled {
		global.RegisterMiddleware(middleware.NewMetricsMiddleware())
	}
	auth := middleware.NewTransport()
	if !cfg.Server.AuthDisabled {
		c.JWTManager = jwt.NewJwtManager(cfg.Server.SecretKey)
		auth.RegisterMiddleware(middleware.NewAdminAuthMiddleware(logger, c.JWTManager))
	}

	routerDI := router.AdminRouterDI{
		Global:           global,
		Auth:             auth,
		HandlerTransport: c.HandlerTransport,
	}
	if c.Hub != nil {
		routerDI.Websocket = middleware.NewWebsocketMiddleware(logger)
		routerDI.BridgeHandler = wsHandlers.NewBridgeHandler(logger, c.Hub)
	}
	c.Routers = []router.ServerRouter{router.NewAdminRouter(routerDI)}
	return nil
}

func (c *Container) providerLocator(
	ctx context.Context,
	cfg *config.Config,
	logger *logrus.Logger,
	httpClient httpx.Client,
) (providersFactory.ProviderLocator, error) {
	var opts []providersFactory.Option
	kinds := make(map[string]bool)
	for _, p := range cfg.Providers.Providers {
		kinds[p.Kind] = true
	}
	if kinds[providersFactory.ProviderAzureContentSafety] {
		credential, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			logger.WithError(err).Warn("azure default credential unavailable, api keys required")
		} else {
			opts = append(opts, providersFactory.WithAzureCredential(credential))
		}
	}
	if kinds[providersFactory.ProviderBedrockGuardrail] {
		bedrockClient, err := bedrock.NewClient(ctx, logger, bedrock.Config{
			Region:       cfg.Bedrock.Region,
			AccessKey:    cfg.Bedrock.AccessKey,
			SecretKey:    cfg.Bedrock.SecretKey,
			SessionToken: cfg.Bedrock.SessionToken,
			RoleARN:      cfg.Bedrock.RoleARN,
			SessionName:  cfg.Bedrock.SessionName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bedrock client: %w", err)
		}
		opts = append(opts, providersFactory.WithBedrockClient(bedrockClient))
	}
	return providersFactory.NewProviderLocator(httpClient, opts...), nil
}

func (c *Container) auditSink(
	cfg config.AuditConfig,
	logger *logrus.Logger,
	repo moderation.AuditRepository,
) (moderation.AuditSink, error) {
	fanout := auditlogs.NewFanout(logger)
	if cfg.Log {
		fanout.With("log", auditlogs.NewLogSink(logger))
	}
	if cfg.Postgres {
		fanout.With("postgres", auditlogs.NewRepositorySink(repo))
	}
	if len(cfg.Kafka) > 0 {
		kafkaConf, err := auditlogs.DecodeKafkaConfig(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		sink, err := auditlogs.NewKafkaSink(kafkaConf)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error {
			sink.Close()
			return nil
		})
		fanout.With("kafka", sink)
	}
	return fanout.Build(), nil
}

// Close releases what the container opened, in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func trustStores(cfg config.TrustConfig, client cache.Client) (domainTrust.ProfileCache, domainTrust.ActivityStore) {
	if cfg.Cache == config.BackendRedis {
		return cache.NewRedisProfileCache(client, cfg.CacheTTL),
			cache.NewRedisActivityStore(client, cfg.ActivityRetention)
	}
	return cache.NewMemoryProfileCache(cfg.CacheCapacity, cfg.CacheTTL), cache.NewMemoryActivityStore()
}

func roomDefaults(cfg config.RoomPolicyConfig) (moderation.RoomPolicy, error) {
	p := *moderation.DefaultRoomPolicy("")
	if cfg.ModerationLevel != "" {
		p.ModerationLevel = moderation.ModerationLevel(strings.ToLower(cfg.ModerationLevel))
	}
	if cfg.TrustThreshold > 0 {
		p.TrustThreshold = cfg.TrustThreshold
	}
	if cfg.MessagesPerMinute > 0 {
		p.RateLimits.MessagesPerMinute = cfg.MessagesPerMinute
	}
	p.EscalationTarget = cfg.EscalationTarget
	for _, raw := range cfg.AllowedActions {
		a, err := moderation.ParseAction(raw)
		if err != nil {
			return p, fmt.Errorf("invalid default room policy: %w", err)
		}
		p.AllowedActions = append(p.AllowedActions, a)
	}
	p.ContextID = "default"
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid default room policy: %w", err)
	}
	p.ContextID = ""
	return p, nil
}

// buildRegistrations resolves every configured provider, enabled or not, so that disabled
// ones can be switched on at runtime.
func buildRegistrations(cfg config.ProvidersConfig, locator providersFactory.ProviderLocator) ([]analysis.Registration, error) {
	registrations := make([]analysis.Registration, 0, len(cfg.Providers))
	for _, id := range cfg.IDs() {
		p := cfg.Providers[id]
		impl, err := locator.Get(p.Kind)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", id, err)
		}
		var providerConfig providers.Config
		if err := mapstructure.Decode(p.Settings, &providerConfig); err != nil {
			return nil, fmt.Errorf("provider %s: invalid settings: %w", id, err)
		}
		registrations = append(registrations, analysis.Registration{
			ID:        id,
			Provider:  impl,
			Config:    providerConfig,
			Enabled:   p.Enabled,
			Timeout:   p.Timeout,
			RateLimit: p.RateLimit,
		})
	}
	return registrations, nil
}

func buildPriorities(raw map[string][]string) (map[moderation.AnalysisType][]string, error) {
	out := make(map[moderation.AnalysisType][]string, len(raw))
	for key, ids := range raw {
		t := moderation.AnalysisType(strings.ToLower(key))
		if !t.Valid() {
			return nil, fmt.Errorf("unknown analysis type %q in gateway priorities", key)
		}
		out[t] = ids
	}
	return out, nil
}
