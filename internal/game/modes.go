// Package game holds the shared data model for multiplayer sessions: game
// modes and their default rule tables, lobby options, and per-player state.
package game

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// GameMode selects the policy table a lobby plays under. The underlying value
// is the wire identifier sent by clients.
type GameMode string

const (
	Attrition    GameMode = "gamemode_mp_attrition"
	Showdown     GameMode = "gamemode_mp_showdown"
	Survival     GameMode = "gamemode_mp_survival"
	CoopSurvival GameMode = "gamemode_mp_coopSurvival"
	Clash        GameMode = "gamemode_mp_clash"
)

// ClashBaseDamage is the per-stage base life damage in Clash. Losers at rank i
// (among losers) take ClashBaseDamage[stage] + i + 1. Stages past the end of
// the schedule keep dealing the final entry.
var ClashBaseDamage = [...]uint8{1, 2, 3, 4, 5}

// ClashStageDamage returns the base damage for a stage, clamped to the
// schedule's last entry.
func ClashStageDamage(stage int32) uint8 {
	if stage < 0 {
		stage = 0
	}
	if int(stage) >= len(ClashBaseDamage) {
		return ClashBaseDamage[len(ClashBaseDamage)-1]
	}
	return ClashBaseDamage[stage]
}

// ModeData bundles a mode's static configuration.
type ModeData struct {
	DefaultOptions LobbyOptions
	MaxPlayers     uint8
}

var modeRegistry = map[GameMode]ModeData{
	Attrition: {
		MaxPlayers:     2,
		DefaultOptions: pvpDefaults(Attrition, 2),
	},
	Showdown: {
		MaxPlayers:     2,
		DefaultOptions: pvpDefaults(Showdown, 2),
	},
	Survival: {
		MaxPlayers:     2,
		DefaultOptions: pvpDefaults(Survival, 20),
	},
	Clash: {
		MaxPlayers:     4,
		DefaultOptions: pvpDefaults(Clash, 2),
	},
	CoopSurvival: {
		MaxPlayers: 6,
		DefaultOptions: LobbyOptions{
			Back:                   "Red Deck",
			Challenge:              "",
			CustomSeed:             "random",
			DeathOnRoundLoss:       true,
			DifferentDecks:         true,
			DifferentSeeds:         true,
			DisableLiveAndTimerHUD: false,
			GameMode:               CoopSurvival,
			GoldOnLifeLoss:         false,
			MultiplayerJokers:      false,
			NoGoldOnRoundLoss:      true,
			NormalBosses:           true,
			PvpStartRound:          2,
			Ruleset:                "ruleset_mp_coop",
			ShowdownStartingAntes:  3,
			Stake:                  1,
			StartingLives:          2,
			TimerBaseSeconds:       150,
			TimerIncrementSeconds:  60,
		},
	},
}

// pvpDefaults is the shared PvP option block; the modes differ only in the
// round the head-to-head phase starts at.
func pvpDefaults(mode GameMode, pvpStartRound int32) LobbyOptions {
	return LobbyOptions{
		Back:                   "Red Deck",
		Challenge:              "",
		CustomSeed:             "random",
		DeathOnRoundLoss:       false,
		DifferentDecks:         false,
		DifferentSeeds:         false,
		DisableLiveAndTimerHUD: false,
		GameMode:               mode,
		GoldOnLifeLoss:         true,
		MultiplayerJokers:      true,
		NoGoldOnRoundLoss:      false,
		NormalBosses:           false,
		PvpStartRound:          pvpStartRound,
		Ruleset:                "ruleset_mp_standard",
		ShowdownStartingAntes:  3,
		Stake:                  1,
		StartingLives:          4,
		TimerBaseSeconds:       150,
		TimerIncrementSeconds:  60,
	}
}

// Valid reports whether the mode is one of the closed set.
func (m GameMode) Valid() bool {
	_, ok := modeRegistry[m]
	return ok
}

// Data returns the static table for the mode. Unknown modes fall back to
// Attrition so a half-initialized lobby still has coherent rules.
func (m GameMode) Data() ModeData {
	if data, ok := modeRegistry[m]; ok {
		return data
	}
	return modeRegistry[Attrition]
}

// DefaultOptions returns a copy of the mode's default lobby options.
func (m GameMode) DefaultOptions() LobbyOptions {
	return m.Data().DefaultOptions
}

// MaxPlayers returns the mode's lobby capacity.
func (m GameMode) MaxPlayers() uint8 {
	return m.Data().MaxPlayers
}

// String returns a short human-readable name for logging.
func (m GameMode) String() string {
	switch m {
	case Attrition:
		return "Attrition"
	case Showdown:
		return "Showdown"
	case Survival:
		return "Survival"
	case CoopSurvival:
		return "CoopSurvival"
	case Clash:
		return "Clash"
	default:
		return string(m)
	}
}

// EncodeMsgpack writes the wire identifier.
func (m GameMode) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(m))
}

// DecodeMsgpack reads and validates the wire identifier.
func (m *GameMode) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	mode := GameMode(s)
	if !mode.Valid() {
		return fmt.Errorf("game: unknown game mode %q", s)
	}
	*m = mode
	return nil
}

// MarshalJSON writes the wire identifier.
func (m GameMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

// UnmarshalJSON reads and validates the wire identifier.
func (m *GameMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode := GameMode(s)
	if !mode.Valid() {
		return fmt.Errorf("game: unknown game mode %q", s)
	}
	*m = mode
	return nil
}
