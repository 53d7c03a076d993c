package s2c

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol"
	"github.com/FilPag/BalatroMultiplayerServer/internal/score"
)

func decodeAction(t *testing.T, payload []byte) string {
	t.Helper()
	action, err := protocol.DecodeAction(payload)
	require.NoError(t, err)
	return action
}

func TestEncodeCarriesActionTag(t *testing.T) {
	assert.Equal(t, "connected", decodeAction(t, Encode(&Connected{ClientID: "abc"})))
	assert.Equal(t, "a", decodeAction(t, Encode(&KeepAliveResponse{})))
	assert.Equal(t, "error", decodeAction(t, Encode(&Error{Message: "Lobby is full"})))
	assert.Equal(t, "endPvp", decodeAction(t, Encode(&EndPvp{Won: true})))
}

// Every message must decode back into itself from its own encoding.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	entry := game.NewLobbyEntry(game.ClientProfile{
		ID:       "player-1",
		Username: "Alice",
		Colour:   7,
		ModHash:  "hash",
	}, "ABC12", true, 4)

	variants := []Message{
		&Connected{ClientID: "player-1"},
		&KeepAliveResponse{},
		&VersionOk{},
		&Error{Message: "Malformed message"},
		&PlayerJoinedLobby{Player: entry},
		&PlayerLeftLobby{PlayerID: "player-1", HostID: "player-2"},
		&UpdateLobbyOptions{Options: game.Attrition.DefaultOptions()},
		&GameStarted{Seed: "*A1B2C3D4", Stake: 1},
		&StartBlind{},
		&GameStopped{},
		&LoseGame{},
		&WinGame{},
		&SetBossBlind{Key: "bl_hook"},
		&EndPvp{Won: false},
		&GameStateUpdate{PlayerID: "player-1", GameState: entry.GameState},
		&ResetPlayers{Players: []game.ClientLobbyEntry{entry}},
		&LobbyReady{ReadyStates: map[string]bool{"player-1": true, "player-2": false}},
		&InGameStatuses{Statuses: map[string]bool{"player-1": true}},
		&ReceivePlayerJokers{PlayerID: "player-1", Jokers: "jokers"},
		&ReceivePlayerDeck{PlayerID: "player-1", Deck: "deck"},
		&SendPhantom{Key: "j_phantom"},
		&RemovePhantom{Key: "j_phantom"},
		&Asteroid{Sender: "player-2"},
		&LetsGoGamblingNemesis{},
		&EatPizza{Discards: 2},
		&SoldJoker{},
		&SpentLastShop{PlayerID: "player-1", Amount: 14},
		&StartAnteTimer{Time: 150},
		&PauseAnteTimer{Time: 60},
		&Magnet{},
		&MagnetResponse{Key: "j_magnet"},
		&ReceivedMoney{},
	}

	for _, original := range variants {
		t.Run(original.Action(), func(t *testing.T) {
			payload := Encode(original)
			assert.Equal(t, original.Action(), decodeAction(t, payload))

			// Re-decode into a fresh value of the same concrete type.
			fresh := newSameType(original)
			require.NoError(t, msgpack.Unmarshal(payload, fresh))
			assert.Equal(t, original, fresh)
		})
	}
}

func newSameType(msg Message) Message {
	switch msg.(type) {
	case *Connected:
		return &Connected{}
	case *KeepAliveResponse:
		return &KeepAliveResponse{}
	case *VersionOk:
		return &VersionOk{}
	case *Error:
		return &Error{}
	case *JoinedLobby:
		return &JoinedLobby{}
	case *PlayerJoinedLobby:
		return &PlayerJoinedLobby{}
	case *PlayerLeftLobby:
		return &PlayerLeftLobby{}
	case *UpdateLobbyOptions:
		return &UpdateLobbyOptions{}
	case *GameStarted:
		return &GameStarted{}
	case *StartBlind:
		return &StartBlind{}
	case *GameStopped:
		return &GameStopped{}
	case *LoseGame:
		return &LoseGame{}
	case *WinGame:
		return &WinGame{}
	case *SetBossBlind:
		return &SetBossBlind{}
	case *EndPvp:
		return &EndPvp{}
	case *GameStateUpdate:
		return &GameStateUpdate{}
	case *ResetPlayers:
		return &ResetPlayers{}
	case *LobbyReady:
		return &LobbyReady{}
	case *InGameStatuses:
		return &InGameStatuses{}
	case *ReceivePlayerJokers:
		return &ReceivePlayerJokers{}
	case *ReceivePlayerDeck:
		return &ReceivePlayerDeck{}
	case *SendPhantom:
		return &SendPhantom{}
	case *RemovePhantom:
		return &RemovePhantom{}
	case *Asteroid:
		return &Asteroid{}
	case *LetsGoGamblingNemesis:
		return &LetsGoGamblingNemesis{}
	case *EatPizza:
		return &EatPizza{}
	case *SoldJoker:
		return &SoldJoker{}
	case *SpentLastShop:
		return &SpentLastShop{}
	case *StartAnteTimer:
		return &StartAnteTimer{}
	case *PauseAnteTimer:
		return &PauseAnteTimer{}
	case *Magnet:
		return &Magnet{}
	case *MagnetResponse:
		return &MagnetResponse{}
	case *ReceivedMoney:
		return &ReceivedMoney{}
	default:
		return nil
	}
}

func TestEncodeJoinedLobbySnapshot(t *testing.T) {
	entry := game.NewLobbyEntry(game.ClientProfile{ID: "host-1"}, "XYZ99", true, 2)
	payload := Encode(&JoinedLobby{
		PlayerID: "host-1",
		LobbyData: game.LobbyData{
			Code:         "XYZ99",
			Started:      false,
			BossChips:    score.Zero(),
			LobbyOptions: game.CoopSurvival.DefaultOptions(),
			Players:      map[string]game.ClientLobbyEntry{"host-1": entry},
			MaxPlayers:   6,
		},
	})

	var decoded JoinedLobby
	require.NoError(t, msgpack.Unmarshal(payload, &decoded))
	assert.Equal(t, "host-1", decoded.PlayerID)
	assert.Equal(t, "XYZ99", decoded.LobbyData.Code)
	assert.Equal(t, uint8(6), decoded.LobbyData.MaxPlayers)
	require.Contains(t, decoded.LobbyData.Players, "host-1")
	assert.True(t, decoded.LobbyData.Players["host-1"].LobbyState.IsHost)
}

func TestToJSONDiagnostics(t *testing.T) {
	out := ToJSON(&Error{Message: "Lobby not found"})
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "error", decoded["action"])
	assert.Equal(t, "Lobby not found", decoded["message"])
}
