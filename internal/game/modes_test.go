package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestModeRegistryDefaults(t *testing.T) {
	attrition := Attrition.DefaultOptions()
	assert.Equal(t, uint8(2), Attrition.MaxPlayers())
	assert.Equal(t, uint8(4), attrition.StartingLives)
	assert.Equal(t, "ruleset_mp_standard", attrition.Ruleset)
	assert.Equal(t, "random", attrition.CustomSeed)
	assert.False(t, attrition.DeathOnRoundLoss)
	assert.Equal(t, int32(2), attrition.PvpStartRound)

	survival := Survival.DefaultOptions()
	assert.Equal(t, int32(20), survival.PvpStartRound)

	coop := CoopSurvival.DefaultOptions()
	assert.Equal(t, uint8(6), CoopSurvival.MaxPlayers())
	assert.Equal(t, uint8(2), coop.StartingLives)
	assert.True(t, coop.DeathOnRoundLoss)
	assert.True(t, coop.DifferentSeeds)
	assert.True(t, coop.DifferentDecks)
	assert.Equal(t, "ruleset_mp_coop", coop.Ruleset)

	assert.Equal(t, uint8(4), Clash.MaxPlayers())
}

func TestDefaultOptionsAreCopies(t *testing.T) {
	first := Attrition.DefaultOptions()
	first.StartingLives = 99
	second := Attrition.DefaultOptions()
	assert.Equal(t, uint8(4), second.StartingLives)
}

func TestGameModeValidity(t *testing.T) {
	for _, mode := range []GameMode{Attrition, Showdown, Survival, CoopSurvival, Clash} {
		assert.True(t, mode.Valid(), mode.String())
	}
	assert.False(t, GameMode("gamemode_mp_bogus").Valid())
}

func TestGameModeWireRoundTrip(t *testing.T) {
	data, err := msgpack.Marshal(Showdown)
	require.NoError(t, err)

	var decoded GameMode
	require.NoError(t, msgpack.Unmarshal(data, &decoded))
	assert.Equal(t, Showdown, decoded)

	bogus, err := msgpack.Marshal("gamemode_mp_bogus")
	require.NoError(t, err)
	assert.Error(t, msgpack.Unmarshal(bogus, &decoded))
}

func TestClashStageDamageClamps(t *testing.T) {
	assert.Equal(t, ClashBaseDamage[0], ClashStageDamage(0))
	assert.Equal(t, ClashBaseDamage[len(ClashBaseDamage)-1], ClashStageDamage(int32(len(ClashBaseDamage))))
	assert.Equal(t, ClashBaseDamage[len(ClashBaseDamage)-1], ClashStageDamage(1000))
	assert.Equal(t, ClashBaseDamage[0], ClashStageDamage(-3))
}

func TestNewLobbyEntry(t *testing.T) {
	host := NewLobbyEntry(ClientProfile{ID: "h"}, "CODE1", true, 4)
	assert.True(t, host.LobbyState.IsHost)
	assert.True(t, host.LobbyState.IsReady)
	assert.Equal(t, uint8(4), host.GameState.Lives)
	assert.Equal(t, "CODE1", host.LobbyState.CurrentLobby)
	assert.Equal(t, "loc_selecting", host.GameState.Location)

	guest := NewLobbyEntry(ClientProfile{ID: "g"}, "CODE1", false, 4)
	assert.False(t, guest.LobbyState.IsHost)
	assert.False(t, guest.LobbyState.IsReady)
}

func TestResetForGame(t *testing.T) {
	entry := NewLobbyEntry(ClientProfile{ID: "p"}, "CODE1", true, 4)
	entry.GameState.Lives = 1
	entry.GameState.HandsLeft = 0
	entry.GameState.Skips = 5
	entry.LobbyState.IsReady = true

	entry.ResetForGame(3)
	assert.Equal(t, uint8(3), entry.GameState.Lives)
	assert.Equal(t, uint8(4), entry.GameState.HandsLeft)
	assert.Equal(t, uint8(0), entry.GameState.Skips)
	assert.False(t, entry.LobbyState.IsReady)
}
