package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JHay0112/raytracing/web/server"
	"github.com/urfave/cli"
)

// Serve renders scenes over HTTP until interrupted.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	srv := server.NewServer(ctx.Int("port"), ctx.String("scene-dir"))
	srv.SetWorkers(ctx.Int("workers"))

	serveCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(serveCtx)
}
