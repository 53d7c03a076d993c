// Package s2c defines the server-to-client messages and their encoder. Each
// message is a struct whose msgpack tags are the wire field names; the wire
// discriminant is returned by Action.
package s2c

import (
	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
)

// Message is implemented by every outbound message.
type Message interface {
	// Action returns the wire discriminant.
	Action() string
}

// Connection responses.

type Connected struct {
	ClientID string `msgpack:"client_id" json:"client_id"`
}

func (*Connected) Action() string { return "connected" }

type KeepAliveResponse struct{}

func (*KeepAliveResponse) Action() string { return "a" }

type VersionOk struct{}

func (*VersionOk) Action() string { return "versionOk" }

type Error struct {
	Message string `msgpack:"message" json:"message"`
}

func (*Error) Action() string { return "error" }

// Lobby responses.

type JoinedLobby struct {
	PlayerID  string         `msgpack:"player_id" json:"player_id"`
	LobbyData game.LobbyData `msgpack:"lobby_data" json:"lobby_data"`
}

func (*JoinedLobby) Action() string { return "joinedLobby" }

type PlayerJoinedLobby struct {
	Player game.ClientLobbyEntry `msgpack:"player" json:"player"`
}

func (*PlayerJoinedLobby) Action() string { return "playerJoinedLobby" }

type PlayerLeftLobby struct {
	PlayerID string `msgpack:"player_id" json:"player_id"`
	HostID   string `msgpack:"host_id" json:"host_id"`
}

func (*PlayerLeftLobby) Action() string { return "playerLeftLobby" }

type UpdateLobbyOptions struct {
	Options game.LobbyOptions `msgpack:"options" json:"options"`
}

func (*UpdateLobbyOptions) Action() string { return "updateLobbyOptions" }

// Game flow.

type GameStarted struct {
	Seed  string `msgpack:"seed" json:"seed"`
	Stake int32  `msgpack:"stake" json:"stake"`
}

func (*GameStarted) Action() string { return "gameStarted" }

type StartBlind struct{}

func (*StartBlind) Action() string { return "startBlind" }

type GameStopped struct{}

func (*GameStopped) Action() string { return "gameStopped" }

type LoseGame struct{}

func (*LoseGame) Action() string { return "loseGame" }

type WinGame struct{}

func (*WinGame) Action() string { return "winGame" }

type SetBossBlind struct {
	Key string `msgpack:"key" json:"key"`
}

func (*SetBossBlind) Action() string { return "setBossBlind" }

type EndPvp struct {
	Won bool `msgpack:"won" json:"won"`
}

func (*EndPvp) Action() string { return "endPvp" }

type GameStateUpdate struct {
	PlayerID  string               `msgpack:"player_id" json:"player_id"`
	GameState game.ClientGameState `msgpack:"game_state" json:"game_state"`
}

func (*GameStateUpdate) Action() string { return "gameStateUpdate" }

type ResetPlayers struct {
	Players []game.ClientLobbyEntry `msgpack:"players" json:"players"`
}

func (*ResetPlayers) Action() string { return "resetPlayers" }

type LobbyReady struct {
	ReadyStates map[string]bool `msgpack:"ready_states" json:"ready_states"`
}

func (*LobbyReady) Action() string { return "lobbyReady" }

type InGameStatuses struct {
	Statuses map[string]bool `msgpack:"statuses" json:"statuses"`
}

func (*InGameStatuses) Action() string { return "inGameStatuses" }

// Relays between players.

type ReceivePlayerJokers struct {
	PlayerID string `msgpack:"player_id" json:"player_id"`
	Jokers   string `msgpack:"jokers" json:"jokers"`
}

func (*ReceivePlayerJokers) Action() string { return "receivePlayerJokers" }

type ReceivePlayerDeck struct {
	PlayerID string `msgpack:"player_id" json:"player_id"`
	Deck     string `msgpack:"deck" json:"deck"`
}

func (*ReceivePlayerDeck) Action() string { return "receivePlayerDeck" }

type SendPhantom struct {
	Key string `msgpack:"key" json:"key"`
}

func (*SendPhantom) Action() string { return "sendPhantom" }

type RemovePhantom struct {
	Key string `msgpack:"key" json:"key"`
}

func (*RemovePhantom) Action() string { return "removePhantom" }

type Asteroid struct {
	Sender string `msgpack:"sender" json:"sender"`
}

func (*Asteroid) Action() string { return "asteroid" }

type LetsGoGamblingNemesis struct{}

func (*LetsGoGamblingNemesis) Action() string { return "letsGoGamblingNemesis" }

type EatPizza struct {
	Discards uint8 `msgpack:"discards" json:"discards"`
}

func (*EatPizza) Action() string { return "eatPizza" }

type SoldJoker struct{}

func (*SoldJoker) Action() string { return "soldJoker" }

type SpentLastShop struct {
	PlayerID string `msgpack:"player_id" json:"player_id"`
	Amount   uint32 `msgpack:"amount" json:"amount"`
}

func (*SpentLastShop) Action() string { return "spentLastShop" }

type StartAnteTimer struct {
	Time uint32 `msgpack:"time" json:"time"`
}

func (*StartAnteTimer) Action() string { return "startAnteTimer" }

type PauseAnteTimer struct {
	Time uint32 `msgpack:"time" json:"time"`
}

func (*PauseAnteTimer) Action() string { return "pauseAnteTimer" }

type Magnet struct{}

func (*Magnet) Action() string { return "magnet" }

type MagnetResponse struct {
	Key string `msgpack:"key" json:"key"`
}

func (*MagnetResponse) Action() string { return "magnetResponse" }

type ReceivedMoney struct{}

func (*ReceivedMoney) Action() string { return "receivedMoney" }
