// Package server exposes checkpoints and inclusion proofs over http.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/proofs"
	"github.com/forestrie/go-mmrproofs/report"
	"github.com/gin-gonic/gin"
)

type Options struct {
	format          string
	shutdownTimeout time.Duration
}

type Option func(*Options)

// WithFormat sets the report format used when a request does not ask for one
func WithFormat(format string) Option {
	return func(o *Options) {
		o.format = format
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.shutdownTimeout = d
	}
}

type Server struct {
	log      logger.Logger
	pipeline *proofs.Pipeline
	opts     Options
	router   *gin.Engine
}

func New(log logger.Logger, pipeline *proofs.Pipeline, opts ...Option) *Server {
	s := &Server{
		log:      log,
		pipeline: pipeline,
		opts: Options{
			format:          report.FormatJSON,
			shutdownTimeout: 5 * time.Second,
		},
	}
	for _, o := range opts {
		o(&s.opts)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", s.Health)
	router.GET("/checkpoints/:height", s.GetCheckpoint)
	router.GET("/proofs/:target", s.GetProof)
	s.router = router
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
