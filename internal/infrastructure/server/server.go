package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	apihttp "github.com/GriffinCanCode/ProgramFactory/internal/api/http"
	"github.com/GriffinCanCode/ProgramFactory/internal/api/middleware"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	factorygrpc "github.com/GriffinCanCode/ProgramFactory/internal/grpc/factory"
	"github.com/GriffinCanCode/ProgramFactory/internal/host"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
	"github.com/GriffinCanCode/ProgramFactory/internal/ws"
)

// Server wraps the HTTP and gRPC servers and their dependencies
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	memory  *host.MemoryHost
	actor   *dispatch.Actor
	factory uploadingFactory
	hub     *ws.Hub
	router  *gin.Engine
	http    *nethttp.Server
	grpc    *grpc.Server
}

// NewServer creates a new server instance and starts the factory actor.
// When the config carries an init message the factory is initialized.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing Program Factory",
		zap.String("port", cfg.Server.Port),
		zap.String("grpc_port", cfg.Server.GRPCPort),
		zap.String("host_mode", cfg.Runtime.Mode),
	)

	metrics := monitoring.NewMetrics()
	s := &Server{config: cfg, logger: logger, metrics: metrics}

	spawner, err := s.buildSpawner()
	if err != nil {
		return nil, err
	}

	s.hub = ws.NewHub(logger.Logger, metrics)
	s.actor = dispatch.New(dispatch.Config{
		SpawnTimeout: cfg.Runtime.SpawnTimeout,
		MailboxSize:  cfg.Factory.MailboxSize,
	}, spawner, dispatch.Observers(metrics, s.hub), logger.Logger)
	s.actor.Start()
	s.factory = uploadingFactory{Actor: s.actor, memory: s.memory}

	if cfg.Factory.CodeID != "" || cfg.Factory.InitFile != "" {
		init, err := cfg.InitMessage()
		if err != nil {
			s.actor.Stop()
			return nil, err
		}
		if err := s.initialize(context.Background(), init); err != nil {
			s.actor.Stop()
			return nil, err
		}
	} else {
		logger.Info("No init message configured, waiting for POST /init")
	}

	s.router = s.buildRouter()
	if cfg.Server.GRPCEnabled {
		s.grpc = factorygrpc.NewGRPCServer(s.factory, metrics, logger.Logger)
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) buildSpawner() (host.Spawner, error) {
	rc := s.config.Runtime

	var spawner host.Spawner
	switch rc.Mode {
	case config.ModeMemory:
		s.memory = host.NewMemoryHost(host.MemoryOptions{
			StrictCodes: rc.StrictCodes,
			MinGas:      rc.MinGas,
			AckDelay:    rc.AckDelay,
		}, s.logger.Logger)
		spawner = s.memory
	case config.ModeRemote:
		opts := host.DefaultRemoteOptions(rc.URL)
		opts.PollInterval = rc.PollInterval
		spawner = host.NewRemoteHost(opts, s.logger.Logger)
		s.logger.Info("Using remote host runtime", zap.String("url", rc.URL))
	default:
		return nil, fmt.Errorf("unknown host mode %q", rc.Mode)
	}

	if rc.BreakerEnabled {
		spawner = host.NewBreakerSpawner(spawner, host.DefaultBreakerSettings(), s.logger.Logger)
	}
	return spawner, nil
}

func (s *Server) initialize(ctx context.Context, init types.InitConfigFactory) error {
	if err := s.factory.Init(ctx, init); err != nil {
		return fmt.Errorf("failed to initialize factory: %w", err)
	}
	return nil
}

func (s *Server) buildRouter() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.BodyLimit(middleware.MaxBodySize))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = s.config.RateLimit.RequestsPerSecond
		rl.Burst = s.config.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(s.factory, s.metrics, s.logger.Logger)
	handlers.Register(router)
	router.GET("/events", s.hub.HandleConnection)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

// uploadingFactory registers the init code with the in-memory host before
// forwarding Init to the actor
type uploadingFactory struct {
	*dispatch.Actor
	memory *host.MemoryHost
}

func (f uploadingFactory) Init(ctx context.Context, init types.InitConfigFactory) error {
	if f.memory != nil {
		f.memory.UploadCode(init.CodeID)
	}
	return f.Actor.Init(ctx, init)
}

// Router returns the HTTP handler
func (s *Server) Router() nethttp.Handler {
	return s.router
}

// Run serves HTTP, and gRPC when enabled, until Shutdown
func (s *Server) Run() error {
	errs := make(chan error, 2)

	if s.grpc != nil {
		addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.GRPCPort)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		s.logger.Info("Starting gRPC server", zap.String("addr", addr))
		go func() {
			if err := s.grpc.Serve(lis); err != nil {
				errs <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	s.http = &nethttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	go func() {
		err := s.http.ListenAndServe()
		if errors.Is(err, nethttp.ErrServerClosed) {
			err = nil
		} else if err != nil {
			err = fmt.Errorf("http server: %w", err)
		}
		errs <- err
	}()

	return <-errs
}

// Shutdown stops accepting requests, then stops the actor
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var err error
	if s.http != nil {
		if e := s.http.Shutdown(ctx); e != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(e))
			err = fmt.Errorf("failed to shut down http server: %w", e)
		}
	}
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	s.hub.Close()
	s.actor.Stop()
	s.logger.Close()
	return err
}
