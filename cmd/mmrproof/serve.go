package main

import (
	"os/signal"
	"syscall"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/server"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

func serveCmd(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer logger.OnExit()

	pipeline, release, err := newPipeline(log, cfg)
	if err != nil {
		return err
	}
	defer release()

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(log, pipeline,
		server.WithFormat(cfg.Format), server.WithShutdownTimeout(cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
