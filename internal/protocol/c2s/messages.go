// Package c2s defines the client-to-server actions and their decoder. Each
// action is a struct whose msgpack tags are the wire field names; the wire
// discriminant is returned by Action.
package c2s

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol"
	"github.com/FilPag/BalatroMultiplayerServer/internal/score"
)

// Message is implemented by every inbound action.
type Message interface {
	// Action returns the wire discriminant.
	Action() string
}

// Connection actions.

type KeepAlive struct{}

func (*KeepAlive) Action() string { return "k" }

type Version struct {
	Version string `msgpack:"version" json:"version"`
}

func (*Version) Action() string { return "version" }

type SetClientData struct {
	Username string `msgpack:"username" json:"username"`
	Colour   uint8  `msgpack:"colour" json:"colour"`
	ModHash  string `msgpack:"mod_hash" json:"mod_hash"`
}

func (*SetClientData) Action() string { return "setClientData" }

// Lobby actions.

type CreateLobby struct {
	Ruleset  string        `msgpack:"ruleset" json:"ruleset"`
	GameMode game.GameMode `msgpack:"gameMode" json:"gameMode"`
}

func (*CreateLobby) Action() string { return "createLobby" }

type JoinLobby struct {
	Code string `msgpack:"code" json:"code"`
}

func (*JoinLobby) Action() string { return "joinLobby" }

type LeaveLobby struct{}

func (*LeaveLobby) Action() string { return "leaveLobby" }

type UpdateLobbyOptions struct {
	Options game.LobbyOptions `msgpack:"options" json:"options"`
}

func (*UpdateLobbyOptions) Action() string { return "updateLobbyOptions" }

// Game actions.

type SetReady struct {
	IsReady bool `msgpack:"is_ready" json:"is_ready"`
}

func (*SetReady) Action() string { return "setReady" }

type PlayHand struct {
	Score     score.Number `msgpack:"score" json:"score"`
	HandsLeft uint8        `msgpack:"hands_left" json:"hands_left"`
}

func (*PlayHand) Action() string { return "playHand" }

type Discard struct{}

func (*Discard) Action() string { return "discard" }

type FailRound struct{}

func (*FailRound) Action() string { return "failRound" }

type SetBossBlind struct {
	Key   string       `msgpack:"key" json:"key"`
	Chips score.Number `msgpack:"chips" json:"chips"`
}

func (*SetBossBlind) Action() string { return "setBossBlind" }

type Skip struct {
	Blind uint32 `msgpack:"blind" json:"blind"`
}

func (*Skip) Action() string { return "skip" }

type SetLocation struct {
	Location string `msgpack:"location" json:"location"`
}

func (*SetLocation) Action() string { return "setLocation" }

type StartGame struct {
	Seed  string `msgpack:"seed" json:"seed"`
	Stake int32  `msgpack:"stake" json:"stake"`
}

func (*StartGame) Action() string { return "startGame" }

type StopGame struct{}

func (*StopGame) Action() string { return "stopGame" }

type UpdateHandsAndDiscards struct {
	HandsMax    uint8 `msgpack:"hands_max" json:"hands_max"`
	DiscardsMax uint8 `msgpack:"discards_max" json:"discards_max"`
}

func (*UpdateHandsAndDiscards) Action() string { return "updateHandsAndDiscards" }

type SetFurthestBlind struct {
	Blind uint32 `msgpack:"blind" json:"blind"`
}

func (*SetFurthestBlind) Action() string { return "setFurthestBlind" }

type SendPlayerDeck struct {
	Deck string `msgpack:"deck" json:"deck"`
}

func (*SendPlayerDeck) Action() string { return "sendPlayerDeck" }

type SendPlayerJokers struct {
	Jokers string `msgpack:"jokers" json:"jokers"`
}

func (*SendPlayerJokers) Action() string { return "sendPlayerJokers" }

// Multiplayer joker actions.

type SendPhantom struct {
	Key string `msgpack:"key" json:"key"`
}

func (*SendPhantom) Action() string { return "sendPhantom" }

type RemovePhantom struct {
	Key string `msgpack:"key" json:"key"`
}

func (*RemovePhantom) Action() string { return "removePhantom" }

type Asteroid struct {
	Target string `msgpack:"target" json:"target"`
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

type StartAnteTimer struct {
	Time uint32 `msgpack:"time" json:"time"`
}

func (*StartAnteTimer) Action() string { return "startAnteTimer" }

type PauseAnteTimer struct {
	Time uint32 `msgpack:"time" json:"time"`
}

func (*PauseAnteTimer) Action() string { return "pauseAnteTimer" }

type FailTimer struct{}

func (*FailTimer) Action() string { return "failTimer" }

type SpentLastShop struct {
	Amount uint32 `msgpack:"amount" json:"amount"`
}

func (*SpentLastShop) Action() string { return "spentLastShop" }

type Magnet struct{}

func (*Magnet) Action() string { return "magnet" }

type MagnetResponse struct {
	Key string `msgpack:"key" json:"key"`
}

func (*MagnetResponse) Action() string { return "magnetResponse" }

type SendMoney struct {
	PlayerID string `msgpack:"player_id" json:"player_id"`
}

func (*SendMoney) Action() string { return "sendMoney" }

type ReturnToLobby struct{}

func (*ReturnToLobby) Action() string { return "return_to_lobby" }

// registry maps wire discriminants to fresh message values for Decode.
var registry = map[string]func() Message{
	"k":                      func() Message { return &KeepAlive{} },
	"version":                func() Message { return &Version{} },
	"setClientData":          func() Message { return &SetClientData{} },
	"createLobby":            func() Message { return &CreateLobby{} },
	"joinLobby":              func() Message { return &JoinLobby{} },
	"leaveLobby":             func() Message { return &LeaveLobby{} },
	"updateLobbyOptions":     func() Message { return &UpdateLobbyOptions{} },
	"setReady":               func() Message { return &SetReady{} },
	"playHand":               func() Message { return &PlayHand{} },
	"discard":                func() Message { return &Discard{} },
	"failRound":              func() Message { return &FailRound{} },
	"setBossBlind":           func() Message { return &SetBossBlind{} },
	"skip":                   func() Message { return &Skip{} },
	"setLocation":            func() Message { return &SetLocation{} },
	"startGame":              func() Message { return &StartGame{} },
	"stopGame":               func() Message { return &StopGame{} },
	"updateHandsAndDiscards": func() Message { return &UpdateHandsAndDiscards{} },
	"setFurthestBlind":       func() Message { return &SetFurthestBlind{} },
	"sendPlayerDeck":         func() Message { return &SendPlayerDeck{} },
	"sendPlayerJokers":       func() Message { return &SendPlayerJokers{} },
	"sendPhantom":            func() Message { return &SendPhantom{} },
	"removePhantom":          func() Message { return &RemovePhantom{} },
	"asteroid":               func() Message { return &Asteroid{} },
	"letsGoGamblingNemesis":  func() Message { return &LetsGoGamblingNemesis{} },
	"eatPizza":               func() Message { return &EatPizza{} },
	"soldJoker":              func() Message { return &SoldJoker{} },
	"startAnteTimer":         func() Message { return &StartAnteTimer{} },
	"pauseAnteTimer":         func() Message { return &PauseAnteTimer{} },
	"failTimer":              func() Message { return &FailTimer{} },
	"spentLastShop":          func() Message { return &SpentLastShop{} },
	"magnet":                 func() Message { return &Magnet{} },
	"magnetResponse":         func() Message { return &MagnetResponse{} },
	"sendMoney":              func() Message { return &SendMoney{} },
	"return_to_lobby":        func() Message { return &ReturnToLobby{} },
}

// Decode parses one framed payload into its typed action. Unknown actions and
// bad payloads wrap protocol.ErrMalformed so the read loop can keep the
// connection alive.
func Decode(payload []byte) (Message, error) {
	action, err := protocol.DecodeAction(payload)
	if err != nil {
		return nil, err
	}
	fresh, ok := registry[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", protocol.ErrMalformed, action)
	}
	msg := fresh()
	if err := msgpack.Unmarshal(payload, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrMalformed, err)
	}
	return msg, nil
}

// Encode marshals an action with its discriminant, the inverse of Decode.
// The server itself only decodes; this is for test harnesses and client
// tooling.
func Encode(msg Message) ([]byte, error) {
	return protocol.EncodeTagged(msg.Action(), msg)
}
