package game

import "github.com/FilPag/BalatroMultiplayerServer/internal/score"

// ClientProfile is the identity a client carries into lobbies. The id is
// minted by the server at accept time; the rest is self-reported display
// metadata and never trusted for anything beyond relaying.
type ClientProfile struct {
	ID       string `msgpack:"id" json:"id"`
	Username string `msgpack:"username" json:"username"`
	Colour   uint8  `msgpack:"colour" json:"colour"`
	ModHash  string `msgpack:"mod_hash" json:"mod_hash"`
}

// ClientGameState is the per-player round state owned by the lobby actor.
type ClientGameState struct {
	Ante          uint32       `msgpack:"ante" json:"ante"`
	Round         uint32       `msgpack:"round" json:"round"`
	FurthestBlind uint32       `msgpack:"furthest_blind" json:"furthest_blind"`
	HandsLeft     uint8        `msgpack:"hands_left" json:"hands_left"`
	HandsMax      uint8        `msgpack:"hands_max" json:"hands_max"`
	DiscardsLeft  uint8        `msgpack:"discards_left" json:"discards_left"`
	DiscardsMax   uint8        `msgpack:"discards_max" json:"discards_max"`
	Lives         uint8        `msgpack:"lives" json:"lives"`
	LivesBlocker  bool         `msgpack:"lives_blocker" json:"lives_blocker"`
	Location      string       `msgpack:"location" json:"location"`
	Skips         uint8        `msgpack:"skips" json:"skips"`
	Score         score.Number `msgpack:"score" json:"score"`
	HighestScore  score.Number `msgpack:"highest_score" json:"highest_score"`
	SpentInShop   []uint32     `msgpack:"spent_in_shop" json:"spent_in_shop"`
	Team          uint8        `msgpack:"team" json:"team"`
}

// DefaultGameState returns the state every player starts a game with.
func DefaultGameState() ClientGameState {
	return ClientGameState{
		Ante:          0,
		Round:         1,
		FurthestBlind: 1,
		HandsLeft:     4,
		HandsMax:      4,
		DiscardsLeft:  3,
		DiscardsMax:   3,
		Lives:         2,
		LivesBlocker:  false,
		Location:      "loc_selecting",
		Skips:         0,
		Score:         score.Zero(),
		HighestScore:  score.Zero(),
		SpentInShop:   nil,
		Team:          1,
	}
}

// ClientLobbyState is the per-player lobby membership state.
type ClientLobbyState struct {
	CurrentLobby string `msgpack:"current_lobby" json:"current_lobby"`
	IsReady      bool   `msgpack:"is_ready" json:"is_ready"`
	FirstReady   bool   `msgpack:"first_ready" json:"first_ready"`
	IsCached     bool   `msgpack:"is_cached" json:"is_cached"`
	IsHost       bool   `msgpack:"is_host" json:"is_host"`
	InGame       bool   `msgpack:"in_game" json:"in_game"`
}

// ClientLobbyEntry is everything the lobby tracks for one player.
type ClientLobbyEntry struct {
	Profile    ClientProfile    `msgpack:"profile" json:"profile"`
	LobbyState ClientLobbyState `msgpack:"lobby_state" json:"lobby_state"`
	GameState  ClientGameState  `msgpack:"game_state" json:"game_state"`
}

// NewLobbyEntry creates the entry for a freshly joined player. The first
// player in a lobby becomes host and starts ready.
func NewLobbyEntry(profile ClientProfile, lobbyCode string, isHost bool, startingLives uint8) ClientLobbyEntry {
	gs := DefaultGameState()
	gs.Lives = startingLives
	return ClientLobbyEntry{
		Profile: profile,
		LobbyState: ClientLobbyState{
			CurrentLobby: lobbyCode,
			IsReady:      isHost,
			FirstReady:   false,
			IsCached:     false,
			IsHost:       isHost,
		},
		GameState: gs,
	}
}

// ResetForGame wipes round state ahead of a fresh game, keeping membership.
func (e *ClientLobbyEntry) ResetForGame(startingLives uint8) {
	e.LobbyState.IsReady = false
	e.GameState = DefaultGameState()
	e.GameState.Lives = startingLives
}

// LobbyData is the lobby snapshot serialized inside joinedLobby.
type LobbyData struct {
	Code         string                      `msgpack:"code" json:"code"`
	Started      bool                        `msgpack:"started" json:"started"`
	Stage        int32                       `msgpack:"stage" json:"stage"`
	BossChips    score.Number                `msgpack:"boss_chips" json:"boss_chips"`
	LobbyOptions LobbyOptions                `msgpack:"lobby_options" json:"lobby_options"`
	Players      map[string]ClientLobbyEntry `msgpack:"players" json:"players"`
	MaxPlayers   uint8                       `msgpack:"max_players" json:"max_players"`
}
