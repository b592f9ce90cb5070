// Package endpoint serves the timeshift settings endpoint.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Path is the URL path of the settings endpoint.
const Path = "/timeshift"

// Operations selected by the op parameter.
const (
	OpLoadSettings = "loadSettings"
	OpSaveSettings = "saveSettings"
)

// Impl serves load and save requests against a settings store.
type Impl struct {
	store     store.Service
	logger    zerolog.Logger
	startTime time.Time

	// saveMu makes the read-modify-write of a save atomic.
	saveMu sync.Mutex
}

// New creates a new settings endpoint.
func New(logger zerolog.Logger, settingsStore store.Service) *Impl {
	return &Impl{
		store:     settingsStore,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Handler builds the gin engine serving the endpoint.
func (s *Impl) Handler() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(s.logger))

	router.GET("/health", s.health)
	router.GET(Path, s.dispatch)
	router.POST(Path, s.dispatch)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return router
}

// Serve listens on cfg.Listen until ctx is canceled, then shuts down gracefully.
func (s *Impl) Serve(ctx context.Context, cfg models.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("listen", cfg.Listen).Msg("settings endpoint listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down settings endpoint")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Impl) dispatch(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, models.SaveResponse{ErrorMsg: "Invalid request format"})
		return
	}

	switch op := c.Request.Form.Get("op"); op {
	case OpLoadSettings:
		s.loadSettings(c)
	case OpSaveSettings:
		s.saveSettings(c)
	default:
		c.JSON(http.StatusBadRequest, models.SaveResponse{ErrorMsg: fmt.Sprintf("Unknown operation %q", op)})
	}
}

func (s *Impl) loadSettings(c *gin.Context) {
	settings, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load timeshift settings")
		c.JSON(http.StatusInternalServerError, models.SaveResponse{ErrorMsg: "Unable to load configuration"})
		return
	}

	c.JSON(http.StatusOK, models.LoadResponse{Config: settings})
}

func (s *Impl) saveSettings(c *gin.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	ctx := c.Request.Context()

	previous, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load timeshift settings before save")
		c.JSON(http.StatusOK, models.SaveResponse{ErrorMsg: fmt.Sprintf("Unable to load configuration: %v", err)})
		return
	}

	settings, err := DecodeForm(c.Request.Form, previous)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected timeshift settings")
		c.JSON(http.StatusOK, models.SaveResponse{ErrorMsg: err.Error()})
		return
	}

	if err := s.store.Save(ctx, settings); err != nil {
		s.logger.Error().Err(err).Msg("failed to save timeshift settings")
		c.JSON(http.StatusOK, models.SaveResponse{ErrorMsg: fmt.Sprintf("Unable to save configuration: %v", err)})
		return
	}

	s.logger.Info().
		Bool("enabled", settings.Enabled).
		Bool("ondemand", settings.OnDemand).
		Str("path", settings.Path).
		Int64("max_period", settings.MaxPeriod).
		Bool("unlimited_period", settings.UnlimitedPeriod).
		Int64("max_size", settings.MaxSize).
		Bool("unlimited_size", settings.UnlimitedSize).
		Msg("timeshift settings saved")

	c.JSON(http.StatusOK, models.SaveResponse{Success: true})
}

func (s *Impl) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).String(),
	})
}
