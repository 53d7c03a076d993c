package server

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/FilPag/BalatroMultiplayerServer/internal/messages"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/c2s"
)

func quietServer(coordinatorTx chan messages.CoordinatorMessage) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, coordinatorTx)
}

func drainWriter(ch chan []byte) []map[string]interface{} {
	var frames []map[string]interface{}
	for {
		select {
		case payload := <-ch:
			var decoded map[string]interface{}
			if err := msgpack.Unmarshal(payload, &decoded); err == nil {
				frames = append(frames, decoded)
			}
		default:
			return frames
		}
	}
}

func hasAction(frames []map[string]interface{}, action string) bool {
	for _, f := range frames {
		if f["action"] == action {
			return true
		}
	}
	return false
}

func TestHandleActionKeepAlive(t *testing.T) {
	s := quietServer(make(chan messages.CoordinatorMessage, 8))
	client := NewClient(nil)
	writer := make(chan []byte, 8)

	require.NoError(t, s.handleAction(client, &c2s.KeepAlive{}, writer))
	assert.True(t, hasAction(drainWriter(writer), "a"))
}

func TestHandleActionVersion(t *testing.T) {
	s := quietServer(make(chan messages.CoordinatorMessage, 8))
	client := NewClient(nil)
	writer := make(chan []byte, 8)

	require.NoError(t, s.handleAction(client, &c2s.Version{Version: "1.0.0"}, writer))
	assert.True(t, hasAction(drainWriter(writer), "versionOk"))
}

func TestHandleActionSetClientData(t *testing.T) {
	s := quietServer(make(chan messages.CoordinatorMessage, 8))
	client := NewClient(nil)
	writer := make(chan []byte, 8)

	require.NoError(t, s.handleAction(client, &c2s.SetClientData{
		Username: "Alice",
		Colour:   42,
		ModHash:  "abc123",
	}, writer))
	assert.Equal(t, "Alice", client.Profile.Username)
	assert.Equal(t, uint8(42), client.Profile.Colour)
	assert.Equal(t, "abc123", client.Profile.ModHash)
	assert.Empty(t, writer)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil)
	assert.NotEmpty(t, client.Profile.ID)
	assert.Equal(t, "Guest", client.Profile.Username)
	assert.Equal(t, uint8(0), client.Profile.Colour)
	assert.Empty(t, client.Profile.ModHash)
	assert.Nil(t, client.LobbyTx)
	assert.Empty(t, client.CurrentLobby)

	other := NewClient(nil)
	assert.NotEqual(t, client.Profile.ID, other.Profile.ID)
}

func TestHandleActionForwardRequiresLobby(t *testing.T) {
	s := quietServer(make(chan messages.CoordinatorMessage, 8))
	client := NewClient(nil)
	writer := make(chan []byte, 8)

	err := s.handleAction(client, &c2s.SetReady{IsReady: true}, writer)
	assert.Error(t, err)
}

func TestHandleActionForwardsToLobby(t *testing.T) {
	s := quietServer(make(chan messages.CoordinatorMessage, 8))
	client := NewClient(nil)
	writer := make(chan []byte, 8)
	lobbyTx := make(chan messages.LobbyMessage, 8)
	client.LobbyTx = lobbyTx

	require.NoError(t, s.handleAction(client, &c2s.SetReady{IsReady: true}, writer))
	forwarded := <-lobbyTx
	action, ok := forwarded.(messages.ClientAction)
	require.True(t, ok)
	assert.Equal(t, client.Profile.ID, action.ClientID)
	assert.IsType(t, &c2s.SetReady{}, action.Action)
}

func TestHandleActionCreateLobbyInstallsChannel(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	client := NewClient(coordinatorTx)
	writer := make(chan []byte, 8)
	lobbyTx := make(chan messages.LobbyMessage, 8)

	// Fake coordinator: answer the one-shot reply.
	go func() {
		msg := <-coordinatorTx
		create, ok := msg.(messages.CreateLobby)
		if !ok {
			return
		}
		create.RequestTx <- messages.LobbyJoinData{LobbyCode: "AB12C", LobbyTx: lobbyTx}
		close(create.RequestTx)
	}()

	require.NoError(t, s.handleAction(client, &c2s.CreateLobby{
		Ruleset:  "ruleset_mp_standard",
		GameMode: "gamemode_mp_attrition",
	}, writer))
	assert.Equal(t, "AB12C", client.CurrentLobby)
	assert.NotNil(t, client.LobbyTx)
}

func TestHandleActionJoinLobbyFailure(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	client := NewClient(coordinatorTx)
	writer := make(chan []byte, 8)

	go func() {
		msg := <-coordinatorTx
		join, ok := msg.(messages.JoinLobby)
		if !ok {
			return
		}
		close(join.RequestTx)
	}()

	require.NoError(t, s.handleAction(client, &c2s.JoinLobby{Code: "ZZZZZ"}, writer))
	assert.Empty(t, client.CurrentLobby)
	assert.True(t, hasAction(drainWriter(writer), "error"))
}

func TestHandleActionLeaveLobby(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	client := NewClient(coordinatorTx)
	client.LobbyTx = make(chan messages.LobbyMessage, 8)
	client.CurrentLobby = "AB12C"
	writer := make(chan []byte, 8)

	require.NoError(t, s.handleAction(client, &c2s.LeaveLobby{}, writer))
	assert.Nil(t, client.LobbyTx)
	assert.Empty(t, client.CurrentLobby)

	msg := <-coordinatorTx
	disconnected, ok := msg.(messages.ClientDisconnected)
	require.True(t, ok)
	assert.Equal(t, client.Profile.ID, disconnected.ClientID)
}

// readServerFrame reads one frame off the client side of a pipe.
func readServerFrame(t *testing.T, conn net.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	payload, err := protocol.ReadFrame(conn)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(payload, &decoded))
	return decoded
}

func TestConnectionHandshakeAndKeepAlive(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	go s.handleConnection(serverSide)

	connected := readServerFrame(t, clientSide)
	assert.Equal(t, "connected", connected["action"])
	assert.NotEmpty(t, connected["client_id"])

	payload, err := c2s.Encode(&c2s.KeepAlive{})
	require.NoError(t, err)
	require.NoError(t, protocol.WriteFrame(clientSide, payload))

	reply := readServerFrame(t, clientSide)
	assert.Equal(t, "a", reply["action"])
}

func TestConnectionEmptyFrameSurvives(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	go s.handleConnection(serverSide)

	readServerFrame(t, clientSide) // connected

	var zero [4]byte
	_, err := clientSide.Write(zero[:])
	require.NoError(t, err)

	errFrame := readServerFrame(t, clientSide)
	assert.Equal(t, "error", errFrame["action"])
	assert.Equal(t, "Empty message", errFrame["message"])

	// Connection still alive.
	payload, err := c2s.Encode(&c2s.KeepAlive{})
	require.NoError(t, err)
	require.NoError(t, protocol.WriteFrame(clientSide, payload))
	reply := readServerFrame(t, clientSide)
	assert.Equal(t, "a", reply["action"])
}

func TestConnectionMalformedPayloadSurvives(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	go s.handleConnection(serverSide)

	readServerFrame(t, clientSide) // connected

	require.NoError(t, protocol.WriteFrame(clientSide, []byte{0xff, 0x13}))
	errFrame := readServerFrame(t, clientSide)
	assert.Equal(t, "error", errFrame["action"])
	assert.Equal(t, "Malformed message", errFrame["message"])
}

// S4: an oversized length header draws an error, closes the connection, and
// reaches the coordinator as a disconnect.
func TestConnectionOversizedFrameCloses(t *testing.T) {
	coordinatorTx := make(chan messages.CoordinatorMessage, 8)
	s := quietServer(coordinatorTx)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	go s.handleConnection(serverSide)

	connected := readServerFrame(t, clientSide)
	clientID := connected["client_id"]

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 10_000_000)
	_, err := clientSide.Write(header[:])
	require.NoError(t, err)

	errFrame := readServerFrame(t, clientSide)
	assert.Equal(t, "error", errFrame["action"])
	assert.Equal(t, "Message too large", errFrame["message"])

	select {
	case msg := <-coordinatorTx:
		disconnected, ok := msg.(messages.ClientDisconnected)
		require.True(t, ok)
		assert.Equal(t, clientID, disconnected.ClientID)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator never saw the disconnect")
	}

	// The server side is closed; reads now fail.
	require.NoError(t, clientSide.SetReadDeadline(time.Now().Add(500*time.Millisecond)))
	_, err = protocol.ReadFrame(clientSide)
	assert.Error(t, err)
}
