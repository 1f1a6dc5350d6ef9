package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"bostoninfo/database"
	"bostoninfo/intents"
	"bostoninfo/internal/config"
	"bostoninfo/normalization"
	"bostoninfo/notify"
	"bostoninfo/recollect"
	"bostoninfo/server/handlers"
	"bostoninfo/server/middleware"
)

// Dependencies компоненты, которые сервер публикует через HTTP
type Dependencies struct {
	Skill    handlers.SkillExecutor
	Lookup   intents.AddressLookup
	Resolver *normalization.AddressResolver
	Lookups  *database.LookupDB
	Cache    *recollect.Cache
	Notifier notify.Notifier
}

// Server HTTP сервер навыка и отладочного API
type Server struct {
	config *config.Config
	deps   Dependencies

	httpServer *http.Server

	handlerOnce sync.Once
	httpHandler http.Handler
}

// New создает сервер. Маршруты строятся при первом запросе или запуске.
func New(cfg *config.Config, deps Dependencies) *Server {
	s := &Server{config: cfg, deps: deps}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Выгрузка XLSX журнала
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// ServeHTTP реализует http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler().ServeHTTP(w, r)
}

func (s *Server) handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildHTTPHandler()
	})
	return s.httpHandler
}

func (s *Server) buildHTTPHandler() http.Handler {
	// GIN_MODE из окружения имеет приоритет
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware(Logger))
	router.Use(middleware.GinRecoveryMiddleware(s.deps.Notifier))

	handlers.RegisterSwaggerRoutes(router, "")
	s.registerGinHandlers(router)

	router.NoRoute(func(c *gin.Context) {
		middleware.WriteJSONError(c, "Not found", http.StatusNotFound)
	})

	return router
}

func (s *Server) registerGinHandlers(router *gin.Engine) {
	var pinger handlers.Pinger
	var recorder intents.LookupRecorder
	if s.deps.Lookups != nil {
		pinger = s.deps.Lookups
		recorder = s.deps.Lookups
	}

	router.GET("/health", handlers.NewHealthHandler(pinger, s.deps.Cache).HandleHealth)

	if s.deps.Skill != nil {
		skillHandler := handlers.NewSkillHandler(s.deps.Skill, s.deps.Notifier, Logger)
		router.POST("/alexa", skillHandler.HandleSkillRequest)
	}

	api := router.Group("/api")

	addressHandler := handlers.NewAddressHandler(s.deps.Lookup, s.deps.Resolver, recorder, Logger)
	addressesAPI := api.Group("/addresses")
	{
		addressesAPI.GET("/resolve", addressHandler.HandleResolve)
		addressesAPI.GET("/pickup-days", addressHandler.HandlePickupDays)
	}

	if s.deps.Lookups != nil {
		lookupHandler := handlers.NewLookupHandler(s.deps.Lookups)
		lookupsAPI := api.Group("/lookups")
		{
			lookupsAPI.GET("", lookupHandler.HandleList)
			lookupsAPI.GET("/stats", lookupHandler.HandleStats)
			lookupsAPI.GET("/export", lookupHandler.HandleExport)
		}
	}

	errorMetrics := handlers.NewErrorMetricsHandler()
	errorsAPI := api.Group("/errors")
	{
		errorsAPI.GET("/metrics", errorMetrics.GetErrorMetrics)
		errorsAPI.DELETE("/metrics", errorMetrics.ResetErrorMetrics)
	}
}

// Start запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Start() error {
	s.handler()
	Logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	start := time.Now()
	LogInfo(ctx, "Initiating graceful shutdown")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	LogDuration(ctx, "Graceful shutdown", time.Since(start))
	return nil
}
