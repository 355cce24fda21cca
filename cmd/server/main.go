package main

import (
	"context"
	"fmt"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/mama165/sdk-go/logs"
	"github.com/thereayou/voxus/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		return 1
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	srv, err := NewServer(cfg, log)
	if err != nil {
		log.Error("Startup failed", "error", err)
		return 1
	}
	srv.Start()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				log.Info("Graceful shutdown initiated...")
				return srv.StopHTTP(ctx)
			},
			"hub":    srv.StopHub,
			"stores": srv.CloseStores,
		},
	)

	exitCode := <-wait
	log.Info("Server exited", "code", exitCode)
	return exitCode
}
