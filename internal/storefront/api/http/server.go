package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hamburgueria/internal/storefront/adapter/auth"
	brokermessage "hamburgueria/internal/storefront/adapter/broker_message"
	"hamburgueria/internal/storefront/adapter/catalog"
	"hamburgueria/internal/storefront/adapter/kv"
	"hamburgueria/internal/storefront/adapter/remote"
	"hamburgueria/internal/storefront/adapter/repo"
	"hamburgueria/internal/storefront/adapter/sink"
	"hamburgueria/internal/storefront/api/http/handle"
	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/app/services"
	"hamburgueria/internal/xpkg/config"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
	"hamburgueria/internal/xpkg/rabbitmq"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	router *chi.Mux
	cfg    *config.Config
	srv    *http.Server
	params *core.StorefrontParams
	mylog  logger.Logger
	store  core.IStore
	mb     *rabbitmq.Conn
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, params *core.StorefrontParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		params: params,
		mylog:  mylog,
		router: chi.NewRouter(),
	}
}

// Run opens the store, wires the routes and listens until ctx is done.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeStore(); err != nil {
		mylog.Action("store_connection_failed").Error("Failed to open local store", err)
		return err
	}
	mylog.Action("store_connected").Info("Local store ready", "driver", s.cfg.Store.Driver)

	if s.cfg.Sink.Kind == config.SinkAMQP {
		if err := s.initializeRabbitMQ(); err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
			return err
		}
		mylog.Action("mb_connected").Info("Successful message broker connection")
	}

	if err := s.Configure(); err != nil {
		mylog.Action("configure_failed").Error("Failed to configure routes", err)
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.params.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.params.Port, "catalog", s.cfg.Catalog.Source, "sink", s.cfg.Sink.Kind).Info("server is running")
	return s.startHTTPServer()
}

// Stop shuts the listener down and closes the store and broker.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.mylog.Action("store_close_failed").Error("Failed to close local store", err)
			return fmt.Errorf("store close: %w", err)
		}
		s.mylog.Action("store_closed").Info("Local store closed")
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

// Handler exposes the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeStore() error {
	var (
		store core.IStore
		err   error
	)
	switch s.cfg.Store.Driver {
	case config.StoreSQLite:
		store, err = kv.OpenSQLite(s.appCtx, s.cfg.Store.SQLitePath, s.mylog)
	case config.StorePostgres:
		store, err = kv.ConnectPostgres(s.appCtx, s.cfg.DB, s.mylog)
	default:
		store = kv.NewMemory()
	}
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", s.cfg.Store.Driver, err)
	}
	s.store = store
	return nil
}

func (s *Server) initializeRabbitMQ() error {
	mb, err := rabbitmq.Connect(s.appCtx, s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	return nil
}

func (s *Server) catalogProvider(productRepo core.IProductRepo) core.ICatalogProvider {
	if s.cfg.Catalog.Source == config.CatalogRemote {
		client := remote.NewClient(s.cfg.Catalog.URL, s.cfg.Catalog.Timeout, s.mylog)
		return catalog.NewRemote(client, s.mylog)
	}
	return catalog.NewStatic(productRepo, s.mylog)
}

func (s *Server) orderSink() core.IOrderSink {
	switch s.cfg.Sink.Kind {
	case config.SinkHTTP:
		return sink.NewHTTP(remote.NewClient(s.cfg.Sink.URL, s.cfg.Sink.Timeout, s.mylog))
	case config.SinkAMQP:
		if s.mb != nil {
			return brokermessage.NewOrderSink(s.mb.Channel(), s.cfg.RMQ.Exchange, s.mylog)
		}
	}
	return nil
}

func (s *Server) healthChecks() []handle.HealthCheck {
	checks := []handle.HealthCheck{{Name: "store", Alive: s.store.IsAlive}}
	if s.mb != nil {
		mb := s.mb
		checks = append(checks, handle.HealthCheck{Name: "broker", Alive: func(context.Context) error {
			if !mb.IsAlive() {
				return xerrors.ErrRMQConn
			}
			return nil
		}})
	}
	return checks
}

// Configure wires repositories, services and handlers onto the router.
// The store must be open.
func (s *Server) Configure() error {
	if s.store == nil {
		return errors.New("store is not initialized")
	}
	fee, err := s.cfg.Orders.Fee()
	if err != nil {
		return err
	}
	loc, err := s.cfg.History.Location()
	if err != nil {
		return err
	}

	// Repositories and services
	cartRepo := repo.NewCartRepo(s.store, s.mylog)
	orderRepo := repo.NewOrderRepo(s.store, s.mylog)
	logRepo := repo.NewLogRepo(s.store, s.mylog)
	productRepo := repo.NewProductRepo(s.store, s.mylog)
	counter := repo.NewCounterRepo(s.store, s.cfg.Orders.FirstNumber)

	catalogService := services.NewCatalogService(s.catalogProvider(productRepo), s.mylog)
	cartService := services.NewCartService(cartRepo, s.mylog)
	historyService := services.NewHistoryService(logRepo, s.cfg.History.MaxEntries, s.mylog)

	lifecycle := services.NewLifecycle(cartService, orderRepo, counter, historyService, s.orderSink(), services.LifecycleParams{
		DeliveryFee:    fee,
		PaymentMethods: s.cfg.Orders.PaymentMethods,
		Location:       loc,
	}, s.mylog)

	authn := auth.NewSharedSecret(s.cfg.Auth.AdminPassword)

	authHandler := handle.NewAuthHandler(authn, s.mylog)
	catalogHandler := handle.NewCatalogHandler(catalogService, s.mylog)
	cartHandler := handle.NewCartHandler(cartService, catalogService, s.mylog)
	orderHandler := handle.NewOrderHandler(lifecycle, loc, s.mylog)
	historyHandler := handle.NewHistoryHandler(historyService, s.mylog)
	badgesHandler := handle.NewBadgesHandler(cartService, lifecycle, s.mylog)
	requireAuth := handle.RequireAuth(authn)

	// Register routes
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handle.RequestLogger(s.mylog))

	r.Get("/health", handle.Health(s.mylog, s.healthChecks()...))
	r.Get("/badges", badgesHandler.Get())

	r.Post("/auth/login", authHandler.Login())
	r.Post("/auth/logout", authHandler.Logout())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalogHandler.List())
		r.Get("/categories", catalogHandler.Categories())
		r.With(requireAuth).Post("/refresh", catalogHandler.Refresh())
		r.With(requireAuth).Post("/", catalogHandler.Create())
		r.With(requireAuth).Delete("/{id}", catalogHandler.Delete())
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.Get())
		r.Delete("/", cartHandler.Clear())
		r.Post("/items", cartHandler.AddItem())
		r.Put("/items/{productID}", cartHandler.SetQuantity())
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.Submit())
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", orderHandler.List())
			r.Post("/{id}/ready", orderHandler.Ready())
			r.Post("/{id}/finalize", orderHandler.Finalize())
			r.Get("/{id}/receipt", orderHandler.Receipt())
		})
	})

	r.Route("/logs", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", historyHandler.List())
		r.Get("/summary", historyHandler.Summary())
		r.Get("/{number}/receipt", historyHandler.Receipt())
		r.Delete("/", historyHandler.Clear())
	})

	return nil
}
