package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/titanic-insights/internal/dashboard"
	"github.com/KaramelBytes/titanic-insights/internal/logger"
)

type RouterConfig struct {
	App         *dashboard.App
	Logger      *logger.Logger
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	h := NewHandler(cfg.App)

	// Health
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/passengers", h.Passengers)
		api.GET("/describe", h.Describe)
		api.GET("/survival", h.Survival)
		api.GET("/survival/:column", h.SurvivalBy)
		api.GET("/counts/:column", h.Counts)
		api.GET("/distribution/:column", h.Distribution)
		api.GET("/scatter", h.Scatter)
		api.GET("/charts/:name", h.Chart)

		if cfg.App.PredictionEnabled() {
			api.POST("/predict", h.Predict)
		}
	}
	return r
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("http server stopped")
	return nil
}
