// Package server implements the TCP listener and the per-connection client
// actor pair: a reader task that owns the client record and dispatches
// actions, and a writer task that drains the outbound frame queue.
package server

import (
	"net"

	"github.com/sirupsen/logrus"

	"github.com/FilPag/BalatroMultiplayerServer/internal/messages"
	"github.com/FilPag/BalatroMultiplayerServer/internal/netutil"
)

// Server accepts connections and hands each one to a client actor.
type Server struct {
	logger        *logrus.Logger
	coordinatorTx chan<- messages.CoordinatorMessage
}

// New creates a server that routes lobby traffic to the given coordinator.
func New(logger *logrus.Logger, coordinatorTx chan<- messages.CoordinatorMessage) *Server {
	return &Server{
		logger:        logger,
		coordinatorTx: coordinatorTx,
	}
}

// Serve accepts connections until the listener closes. Each accepted
// connection gets keep-alive probes enabled and its own reader goroutine.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			if err := netutil.ConfigureKeepAlive(tcp); err != nil {
				s.logger.WithError(err).Warn("Failed to configure TCP keep-alive")
			}
		}
		go s.handleConnection(conn)
	}
}
