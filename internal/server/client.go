package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
	"github.com/FilPag/BalatroMultiplayerServer/internal/messages"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/c2s"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/s2c"
)

// writerQueueSize buffers outbound frames per connection. The reader blocks
// when it fills, pushing backpressure into TCP.
const writerQueueSize = 256

// Client is the per-connection record, owned exclusively by the reader task.
type Client struct {
	Profile       game.ClientProfile
	CurrentLobby  string
	LobbyTx       chan<- messages.LobbyMessage
	CoordinatorTx chan<- messages.CoordinatorMessage
}

// NewClient mints a fresh identity for an accepted connection.
func NewClient(coordinatorTx chan<- messages.CoordinatorMessage) *Client {
	return &Client{
		Profile: game.ClientProfile{
			ID:       uuid.NewString(),
			Username: "Guest",
			Colour:   0,
			ModHash:  "",
		},
		CoordinatorTx: coordinatorTx,
	}
}

// handleConnection runs the reader task for one connection and supervises its
// writer task. It returns when the peer disconnects or commits protocol
// abuse; cleanup notifies the coordinator so any lobby sees the leave.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	client := NewClient(s.coordinatorTx)
	clientID := client.Profile.ID
	log := s.logger.WithFields(logrus.Fields{
		"client": clientID,
		"remote": conn.RemoteAddr().String(),
	})
	log.Info("Client connected")

	writerTx := make(chan []byte, writerQueueSize)
	done := make(chan struct{})
	writerExited := make(chan struct{})
	go func() {
		defer close(writerExited)
		writeLoop(conn, writerTx, done, log)
	}()

	// The first frame a client ever sees is its server-minted id.
	writerTx <- s2c.Encode(&s2c.Connected{ClientID: clientID})

	s.readLoop(conn, client, writerTx, log)

	s.coordinatorTx <- messages.ClientDisconnected{
		ClientID:      clientID,
		CoordinatorTx: s.coordinatorTx,
	}
	close(done)
	<-writerExited
	log.Debug("Client cleanup complete")
}

// readLoop decodes and dispatches frames until an I/O error or a fatal
// protocol violation. Empty and malformed frames are answered and survived.
func (s *Server) readLoop(conn net.Conn, client *Client, writerTx chan []byte, log *logrus.Entry) {
	for {
		payload, err := protocol.ReadFrame(conn)
		if err != nil {
			switch {
			case errors.Is(err, protocol.ErrEmptyFrame):
				log.Error("Client sent empty frame")
				writerTx <- s2c.Encode(&s2c.Error{Message: "Empty message"})
				continue
			case errors.Is(err, protocol.ErrOversized):
				log.WithError(err).Error("Client sent oversized frame")
				writerTx <- s2c.Encode(&s2c.Error{Message: "Message too large"})
				return
			default:
				log.WithError(err).Info("Client disconnected")
				return
			}
		}

		action, err := c2s.Decode(payload)
		if err != nil {
			log.WithError(err).Error("Failed to parse client message")
			writerTx <- s2c.Encode(&s2c.Error{Message: "Malformed message"})
			continue
		}

		if err := s.handleAction(client, action, writerTx); err != nil {
			log.WithFields(logrus.Fields{
				"action": action.Action(),
				"error":  err,
			}).Error("Action failed")
			writerTx <- s2c.Encode(&s2c.Error{Message: fmt.Sprintf("Action failed: %v", err)})
		}
	}
}

// handleAction processes connection-local actions and forwards the rest to
// the client's current lobby.
func (s *Server) handleAction(client *Client, action c2s.Message, writerTx chan []byte) error {
	clientID := client.Profile.ID

	switch m := action.(type) {
	case *c2s.KeepAlive:
		writerTx <- s2c.Encode(&s2c.KeepAliveResponse{})
	case *c2s.Version:
		s.logger.WithFields(logrus.Fields{
			"client":  clientID,
			"version": m.Version,
		}).Debug("Client version")
		writerTx <- s2c.Encode(&s2c.VersionOk{})
	case *c2s.SetClientData:
		client.Profile.Username = m.Username
		client.Profile.Colour = m.Colour
		client.Profile.ModHash = m.ModHash
		s.logger.WithFields(logrus.Fields{
			"client":   clientID,
			"username": m.Username,
			"colour":   m.Colour,
			"mod_hash": m.ModHash,
		}).Debug("Client set profile data")
	case *c2s.CreateLobby:
		reply := make(chan messages.LobbyJoinData, 1)
		s.coordinatorTx <- messages.CreateLobby{
			ClientID:  clientID,
			Ruleset:   m.Ruleset,
			GameMode:  m.GameMode,
			Profile:   client.Profile,
			RequestTx: reply,
			WriterTx:  writerTx,
		}
		if jd, ok := <-reply; ok {
			client.LobbyTx = jd.LobbyTx
			client.CurrentLobby = jd.LobbyCode
		} else {
			writerTx <- s2c.Encode(&s2c.Error{Message: "Failed to create lobby"})
		}
	case *c2s.JoinLobby:
		reply := make(chan messages.LobbyJoinData, 1)
		s.coordinatorTx <- messages.JoinLobby{
			ClientID:  clientID,
			LobbyCode: m.Code,
			Profile:   client.Profile,
			RequestTx: reply,
			WriterTx:  writerTx,
		}
		if jd, ok := <-reply; ok {
			client.LobbyTx = jd.LobbyTx
			client.CurrentLobby = jd.LobbyCode
		} else {
			writerTx <- s2c.Encode(&s2c.Error{Message: "Failed to join lobby"})
		}
	case *c2s.LeaveLobby:
		s.logger.WithField("client", clientID).Info("Client leaving lobby")
		if client.LobbyTx != nil {
			s.coordinatorTx <- messages.ClientDisconnected{
				ClientID:      clientID,
				CoordinatorTx: s.coordinatorTx,
			}
		}
		client.LobbyTx = nil
		client.CurrentLobby = ""
	default:
		if client.LobbyTx == nil {
			return fmt.Errorf("not in a lobby")
		}
		// Non-blocking: a dead or saturated lobby must not wedge the reader.
		select {
		case client.LobbyTx <- messages.ClientAction{ClientID: clientID, Action: action}:
		default:
			return fmt.Errorf("lobby unavailable")
		}
	}
	return nil
}

// writeLoop is the writer task: it frames and writes queued payloads until
// the first I/O error, then on shutdown drains what is already queued.
func writeLoop(conn net.Conn, out <-chan []byte, done <-chan struct{}, log *logrus.Entry) {
	for {
		select {
		case payload := <-out:
			if err := protocol.WriteFrame(conn, payload); err != nil {
				log.WithError(err).Error("Failed to write frame")
				return
			}
		case <-done:
			for {
				select {
				case payload := <-out:
					if err := protocol.WriteFrame(conn, payload); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}
