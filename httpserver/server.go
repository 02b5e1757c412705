package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pvpokemon/pvpokemon/box_service"
	"github.com/pvpokemon/pvpokemon/box_stream"
	"github.com/pvpokemon/pvpokemon/pokedex"
	"github.com/pvpokemon/pvpokemon/projections"
	"github.com/pvpokemon/pvpokemon/recommender"
	"github.com/pvpokemon/pvpokemon/stats_collector"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type APIErrorResponse struct {
	Error string `json:"error"`
}

// Services are what the API is served from. Snapshots and Streams may
// be nil.
type Services struct {
	Pokedex     *pokedex.Pokedex
	AssetsDir   string
	Recommender *recommender.Recommender
	BoxService  *box_service.BoxService
	Snapshots   *projections.BoxSnapshotProjection
	Streams     *box_stream.Hub
}

type HTTPServer struct {
	logger         *logrus.Logger
	ginRouter      *gin.Engine
	services       Services
	statsCollector stats_collector.StatsCollector
}

// Run starts and runs the HTTP server until 'ctx' is cancelled or the server fails to start.
func (srv *HTTPServer) Run(ctx context.Context, address string, shutdownWaitTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:    address,
		Handler: srv.ginRouter,
	}

	// hijacked websocket connections aren't waited on by Shutdown.
	if streams := srv.services.Streams; streams != nil {
		httpServer.RegisterOnShutdown(streams.Close)
	}

	doneCh := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			doneCh <- err
		}()
		err = httpServer.ListenAndServe()
		if err != nil {
			if err == http.ErrServerClosed {
				err = nil
			} else {
				err = fmt.Errorf("Failed to listen and start http server: %w", err)
			}
		}
	}()

	select {
	case <-ctx.Done():
		sdCtx, sdCancelFn := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer sdCancelFn()
		err := httpServer.Shutdown(sdCtx)
		if err != nil {
			if err == context.DeadlineExceeded {
				return errors.New("Graceful HTTP server shutdown timed out.")
			}
			return fmt.Errorf("Error during http server shutdown: %w", err)
		}
		return <-doneCh
	case err := <-doneCh:
		return err
	}
}

func (srv *HTTPServer) Handler() http.Handler {
	return srv.ginRouter
}

func NewHTTPServer(logger *logrus.Logger, services Services, statsCollector stats_collector.StatsCollector) (*HTTPServer, error) {
	if services.Recommender == nil || services.BoxService == nil {
		return nil, errors.New("http server needs a recommender and a box service")
	}

	// Create the web server.
	r := gin.New()
	r.Use(gin.RecoveryWithWriter(logger.Writer()))
	statsCollector.RegisterGinEngine(r)

	srv := &HTTPServer{
		logger:         logger,
		ginRouter:      r,
		services:       services,
		statsCollector: statsCollector,
	}

	srv.setupRoutes()
	return srv, nil
}
