// cmd/server/main.go
package main

import (
	"fmt"
	"net"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/FilPag/BalatroMultiplayerServer/internal/config"
	"github.com/FilPag/BalatroMultiplayerServer/internal/coordinator"
	"github.com/FilPag/BalatroMultiplayerServer/internal/messages"
	"github.com/FilPag/BalatroMultiplayerServer/internal/server"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.Port))
	if err != nil {
		logger.WithError(err).Fatal("Failed to bind listener")
	}
	logger.WithField("port", cfg.Port).Info("Server listening")

	coordinatorTx := make(chan messages.CoordinatorMessage, coordinator.InboxSize)

	var g errgroup.Group
	g.Go(func() error {
		coordinator.New(logger).Run(coordinatorTx)
		return nil
	})
	g.Go(func() error {
		return server.New(logger, coordinatorTx).Serve(ln)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}
