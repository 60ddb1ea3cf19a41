package main

import (
	"os"
	"os/signal"
	"syscall"

	"sor/internal/bootstrap"
	"sor/pkg/logger"
)

func main() {
	container := bootstrap.NewContainer()
	container.MustInit()
	defer logger.Sync()

	log := container.Log
	log.Infof("Starting %s in %s mode", container.Config.App.Name, container.Config.App.Env)

	if err := container.Start(); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	waitForShutdown(container)
}

// waitForShutdown blocks until a termination signal arrives or a fatal
// component error cancels the application context.
func waitForShutdown(container *bootstrap.Container) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		container.Log.Infof("Received signal: %v", sig)
	case <-container.Context.Done():
		container.Log.Info("Application context cancelled")
	}

	container.Shutdown()
}
