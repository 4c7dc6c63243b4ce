// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cms-admin/internal/config"
	"cms-admin/internal/db"
	"cms-admin/internal/domain/auth"
	"cms-admin/internal/domain/category"
	"cms-admin/internal/domain/content"
	authHandler "cms-admin/internal/handlers/auth"
	categoryHandler "cms-admin/internal/handlers/category"
	contentHandler "cms-admin/internal/handlers/content"
	dashboardHandler "cms-admin/internal/handlers/dashboard"
	wsHandler "cms-admin/internal/handlers/websocket"
	"cms-admin/internal/identity"
	"cms-admin/internal/middleware"
	"cms-admin/internal/pkg/jwt"
	"cms-admin/internal/pkg/session"
	"cms-admin/internal/platform/observability"
	"cms-admin/internal/repository/memory"
	"cms-admin/internal/repository/postgres"
	categoryUsecase "cms-admin/internal/service/category"
	contentUsecase "cms-admin/internal/service/content"
	dashboardUsecase "cms-admin/internal/service/dashboard"
	"cms-admin/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "cms-admin"

type Server struct {
	cfg     config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	http    *http.Server
	session *session.Manager

	// closers run in reverse order on Shutdown.
	closers []func(context.Context) error
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Session returns the console session once Build has run.
func (s *Server) Session() *session.Manager {
	return s.session
}

// Start serves the console until Shutdown is called. Build must have run
// first, on the same goroutine that later calls Shutdown.
func (s *Server) Start() error {
	if s.http == nil {
		return errors.New("server not built")
	}

	s.logger.Info("console listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains the HTTP server and releases every resource Build opened.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		errs = append(errs, s.http.Shutdown(ctx))
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Build wires storage, the identity backend, the session and the routes.
func (s *Server) Build(ctx context.Context) error {
	// ----- Tracing -----
	if s.cfg.OTelEnabled {
		shutdown, err := observability.Init(ctx, serviceName, s.logger)
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		s.onClose(shutdown)
	}

	// ----- Repositories -----
	repos, err := s.buildRepositories(ctx)
	if err != nil {
		return err
	}

	// ----- Identity backend -----
	backend, err := s.buildBackend(ctx, repos.users)
	if err != nil {
		return err
	}

	// ----- Session -----
	store, err := s.buildTokenStore(ctx)
	if err != nil {
		return err
	}
	sessionManager := session.NewManager(ctx, backend, store, s.logger)
	s.session = sessionManager

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(sessionManager, s.logger)
	sessionManager.AddObserver(hub)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)
	s.onClose(func(context.Context) error {
		stopHub()
		return nil
	})

	if s.cfg.SessionRevalidate {
		revalidateCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		snap := sessionManager.Revalidate(revalidateCtx)
		cancel()
		s.logger.Info("session restored",
			zap.String("state", string(snap.State())),
			zap.Bool("profile_loaded", snap.User != nil),
		)
	}

	// ----- Services -----
	categoryService := categoryUsecase.NewCategoryService(repos.categories, s.logger)
	contentService := contentUsecase.NewContentService(repos.contents, repos.categories, s.logger)
	dashboardService := dashboardUsecase.NewDashboardService(contentService, categoryService, repos.userCounter, s.logger)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(sessionManager, s.cfg.AuthTimeout, s.logger),
		ContentHandler:   contentHandler.NewContentHandler(contentService, categoryService, s.logger),
		CategoryHandler:  categoryHandler.NewCategoryHandler(categoryService),
		DashboardHandler: dashboardHandler.NewDashboardHandler(dashboardService, s.logger),
		WSHandler:        wsHandler.NewWebSocketHandler(hub, s.cfg.CORSOrigins, s.logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(sessionManager),
	}

	SetupRouter(s.engine, s.logger, s.cfg, handlers)

	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

type repositories struct {
	users      auth.UserRepository
	categories category.Repository
	contents   content.Repository
	// userCounter is nil for the mock backend, which has no accounts.
	userCounter dashboardUsecase.UserCounter
}

func (s *Server) buildRepositories(ctx context.Context) (*repositories, error) {
	var repos repositories

	switch s.cfg.ContentStore {
	case "memory":
		now := time.Now()
		repos.users = memory.NewUserRepository()
		repos.categories = memory.NewCategoryRepository(memory.SeedCategories(now)...)
		repos.contents = memory.NewContentRepository(memory.SeedContents(now)...)

	case "postgres":
		pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: s.cfg.DatabaseURL})
		if err != nil {
			return nil, err
		}
		s.onClose(func(context.Context) error {
			pool.Close()
			return nil
		})

		dbWrapper := postgres.NewDB(pool)
		if err := dbWrapper.Migrate(ctx); err != nil {
			return nil, err
		}
		s.logger.Info("postgres connected and migrated")

		repos.users = postgres.NewUserRepository(pool)
		repos.categories = postgres.NewCategoryRepository(pool)
		repos.contents = postgres.NewContentRepository(pool, dbWrapper)

	default:
		return nil, fmt.Errorf("unknown CONTENT_STORE %q", s.cfg.ContentStore)
	}

	if s.cfg.IdentityBackend == "local" {
		repos.userCounter = repos.users
	}
	return &repos, nil
}

func (s *Server) buildBackend(ctx context.Context, users auth.UserRepository) (session.Backend, error) {
	switch s.cfg.IdentityBackend {
	case "mock":
		s.logger.Info("using mock identity backend", zap.Duration("delay", s.cfg.MockDelay))
		return identity.NewMockBackend(s.cfg.MockDelay), nil

	case "local":
		tokens, err := jwt.LoadAndBuild(s.cfg.JWT)
		if err != nil {
			return nil, fmt.Errorf("failed to load JWT manager: %w", err)
		}
		if tokens.Ephemeral {
			s.logger.Warn("no JWT keys configured, using an ephemeral keypair; persisted tokens will not survive a restart")
		}

		backend := identity.NewLocalBackend(users, tokens, s.logger)
		if err := backend.SeedAdmin(ctx, s.cfg.AdminUsername, s.cfg.AdminEmail, s.cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to seed admin: %w", err)
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown IDENTITY_BACKEND %q", s.cfg.IdentityBackend)
	}
}

func (s *Server) buildTokenStore(ctx context.Context) (session.TokenStore, error) {
	key := s.cfg.SessionTokenKey

	switch s.cfg.SessionStore {
	case "memory":
		return session.NewMemoryStore(), nil

	case "file":
		return session.NewFileStore(s.cfg.SessionFile, key), nil

	case "sqlite":
		store, err := session.OpenSQLiteStore(s.cfg.SessionSQLitePath, key)
		if err != nil {
			return nil, err
		}
		s.onClose(func(context.Context) error { return store.Close() })
		return store, nil

	case "redis":
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addresses: []string{s.cfg.RedisAddr},
			Password:  s.cfg.RedisPass,
			PoolSize:  4,
		})
		if err != nil {
			return nil, err
		}
		s.onClose(func(context.Context) error { return client.Close() })

		var ttl time.Duration
		if s.cfg.IdentityBackend == "local" {
			ttl = s.cfg.JWT.TTL
		}
		return session.NewRedisStore(client, key, ttl), nil

	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", s.cfg.SessionStore)
	}
}

func (s *Server) onClose(fn func(context.Context) error) {
	s.closers = append(s.closers, fn)
}
