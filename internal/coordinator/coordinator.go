// Package coordinator implements the lobby directory actor. It creates
// lobbies, routes join requests, reaps empty lobbies, and forwards
// disconnects; it never touches game state.
package coordinator

import (
	"github.com/sirupsen/logrus"

	"github.com/FilPag/BalatroMultiplayerServer/internal/lobby"
	"github.com/FilPag/BalatroMultiplayerServer/internal/messages"
	"github.com/FilPag/BalatroMultiplayerServer/internal/netutil"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/s2c"
)

// InboxSize is the buffer for actor inboxes. Inboxes are always drained by a
// live goroutine, so the buffer only absorbs bursts.
const InboxSize = 256

// Coordinator owns the lobby directory. All fields are confined to the Run
// goroutine.
type Coordinator struct {
	lobbies       map[string]chan messages.LobbyMessage
	clientLobbies map[string]string
	log           *logrus.Logger
}

// New creates an empty coordinator.
func New(logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		lobbies:       make(map[string]chan messages.LobbyMessage),
		clientLobbies: make(map[string]string),
		log:           logger,
	}
}

// Run consumes the inbox until it closes. Spawned once at startup.
func (c *Coordinator) Run(inbox <-chan messages.CoordinatorMessage) {
	c.log.Info("Lobby coordinator started")
	for msg := range inbox {
		switch m := msg.(type) {
		case messages.CreateLobby:
			c.handleCreate(m)
		case messages.JoinLobby:
			c.handleJoin(m)
		case messages.LobbyShutdown:
			c.handleShutdown(m)
		case messages.ClientDisconnected:
			c.handleDisconnect(m)
		}
	}
}

func (c *Coordinator) handleCreate(m messages.CreateLobby) {
	code := netutil.LobbyCode()
	for {
		if _, exists := c.lobbies[code]; !exists {
			break
		}
		code = netutil.LobbyCode()
	}

	lobbyTx := make(chan messages.LobbyMessage, InboxSize)
	c.lobbies[code] = lobbyTx
	c.clientLobbies[m.ClientID] = code

	go lobby.Run(code, m.Ruleset, m.GameMode, lobbyTx, c.log)

	m.RequestTx <- messages.LobbyJoinData{LobbyCode: code, LobbyTx: lobbyTx}
	close(m.RequestTx)

	lobbyTx <- messages.ClientJoin{
		ClientID: m.ClientID,
		Profile:  m.Profile,
		WriterTx: m.WriterTx,
	}

	c.log.WithFields(logrus.Fields{
		"lobby":  code,
		"client": m.ClientID,
		"mode":   m.GameMode.String(),
	}).Info("Created lobby")
}

func (c *Coordinator) handleJoin(m messages.JoinLobby) {
	lobbyTx, ok := c.lobbies[m.LobbyCode]
	if !ok {
		c.log.WithFields(logrus.Fields{
			"lobby":  m.LobbyCode,
			"client": m.ClientID,
		}).Debug("Join to unknown lobby")
		sendEncoded(m.WriterTx, &s2c.Error{Message: "Lobby not found"})
		close(m.RequestTx)
		return
	}

	m.RequestTx <- messages.LobbyJoinData{LobbyCode: m.LobbyCode, LobbyTx: lobbyTx}
	close(m.RequestTx)

	lobbyTx <- messages.ClientJoin{
		ClientID: m.ClientID,
		Profile:  m.Profile,
		WriterTx: m.WriterTx,
	}
	c.clientLobbies[m.ClientID] = m.LobbyCode
}

func (c *Coordinator) handleShutdown(m messages.LobbyShutdown) {
	delete(c.lobbies, m.LobbyCode)
	for clientID, code := range c.clientLobbies {
		if code == m.LobbyCode {
			delete(c.clientLobbies, clientID)
		}
	}
	c.log.WithField("lobby", m.LobbyCode).Info("Lobby shut down")
}

func (c *Coordinator) handleDisconnect(m messages.ClientDisconnected) {
	code, ok := c.clientLobbies[m.ClientID]
	if !ok {
		return
	}
	delete(c.clientLobbies, m.ClientID)
	lobbyTx, ok := c.lobbies[code]
	if !ok {
		return
	}
	lobbyTx <- messages.ClientLeave{
		ClientID:      m.ClientID,
		CoordinatorTx: m.CoordinatorTx,
	}
	c.log.WithFields(logrus.Fields{
		"client": m.ClientID,
		"lobby":  code,
	}).Debug("Forwarded disconnect to lobby")
}

func sendEncoded(writerTx chan<- []byte, msg s2c.Message) {
	select {
	case writerTx <- s2c.Encode(msg):
	default:
	}
}
