// Package messages defines the envelopes passed between the connection,
// coordinator, and lobby actors. All cross-actor interaction goes through
// these types on single-consumer channels; no actor ever shares state.
package messages

import (
	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/c2s"
)

// LobbyMessage is anything a lobby actor consumes from its inbox.
type LobbyMessage interface {
	isLobbyMessage()
}

// ClientJoin asks the lobby to admit a player. WriterTx is the player's
// outbound frame channel, registered with the lobby's broadcaster on success.
type ClientJoin struct {
	ClientID string
	Profile  game.ClientProfile
	WriterTx chan<- []byte
}

// ClientLeave removes a player. The lobby uses CoordinatorTx to announce its
// own shutdown when the last player is gone.
type ClientLeave struct {
	ClientID      string
	CoordinatorTx chan<- CoordinatorMessage
}

// ClientAction wraps a forwarded in-lobby action verbatim.
type ClientAction struct {
	ClientID string
	Action   c2s.Message
}

func (ClientJoin) isLobbyMessage()   {}
func (ClientLeave) isLobbyMessage()  {}
func (ClientAction) isLobbyMessage() {}

// CoordinatorMessage is anything the coordinator consumes from its inbox.
type CoordinatorMessage interface {
	isCoordinatorMessage()
}

// CreateLobby mints a lobby and admits the requesting client as host.
// RequestTx is a one-shot reply channel: the coordinator sends LobbyJoinData
// and closes it, or closes it without sending on failure.
type CreateLobby struct {
	ClientID  string
	Ruleset   string
	GameMode  game.GameMode
	Profile   game.ClientProfile
	RequestTx chan<- LobbyJoinData
	WriterTx  chan<- []byte
}

// JoinLobby routes a client into an existing lobby by code.
type JoinLobby struct {
	ClientID  string
	LobbyCode string
	Profile   game.ClientProfile
	RequestTx chan<- LobbyJoinData
	WriterTx  chan<- []byte
}

// LobbyShutdown is a lobby actor's final message before exiting.
type LobbyShutdown struct {
	LobbyCode string
}

// ClientDisconnected tells the coordinator a connection is gone; the
// coordinator forwards a ClientLeave (carrying CoordinatorTx) to the client's
// lobby, if any.
type ClientDisconnected struct {
	ClientID      string
	CoordinatorTx chan<- CoordinatorMessage
}

func (CreateLobby) isCoordinatorMessage()        {}
func (JoinLobby) isCoordinatorMessage()          {}
func (LobbyShutdown) isCoordinatorMessage()      {}
func (ClientDisconnected) isCoordinatorMessage() {}

// LobbyJoinData is the coordinator's one-shot reply to a create/join request.
type LobbyJoinData struct {
	LobbyCode string
	LobbyTx   chan<- LobbyMessage
}
