package lobby

import (
	"github.com/sirupsen/logrus"

	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/s2c"
)

// Broadcaster fans encoded frames out to the lobby's players. Each player is
// a writer channel owned by their connection's writer task; a message is
// encoded once and the payload shared across recipients.
type Broadcaster struct {
	senders map[string]chan<- []byte
	log     *logrus.Entry
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log *logrus.Entry) *Broadcaster {
	return &Broadcaster{
		senders: make(map[string]chan<- []byte),
		log:     log,
	}
}

// Add registers a player's writer channel.
func (b *Broadcaster) Add(playerID string, sender chan<- []byte) {
	b.senders[playerID] = sender
}

// Remove drops a player's writer channel.
func (b *Broadcaster) Remove(playerID string) {
	delete(b.senders, playerID)
}

// SendTo delivers a message to a single player, if present.
func (b *Broadcaster) SendTo(playerID string, msg s2c.Message) {
	sender, ok := b.senders[playerID]
	if !ok {
		return
	}
	b.push(playerID, sender, s2c.Encode(msg), msg.Action())
}

// Broadcast delivers a message to every player.
func (b *Broadcaster) Broadcast(msg s2c.Message) {
	b.broadcastFiltered(msg, func(string) bool { return true })
}

// BroadcastExcept delivers a message to every player but one.
func (b *Broadcaster) BroadcastExcept(except string, msg s2c.Message) {
	b.broadcastFiltered(msg, func(id string) bool { return id != except })
}

// BroadcastTo delivers a message to a set of players.
func (b *Broadcaster) BroadcastTo(playerIDs []string, msg s2c.Message) {
	members := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		members[id] = struct{}{}
	}
	b.broadcastFiltered(msg, func(id string) bool {
		_, ok := members[id]
		return ok
	})
}

// broadcastFiltered is the single fan-out primitive: encode once, send the
// shared payload to every player matching the predicate.
func (b *Broadcaster) broadcastFiltered(msg s2c.Message, include func(playerID string) bool) {
	payload := s2c.Encode(msg)
	for playerID, sender := range b.senders {
		if include(playerID) {
			b.push(playerID, sender, payload, msg.Action())
		}
	}
}

// push enqueues without blocking. A full or abandoned writer channel drops
// the frame; a dead writer must never stall the lobby actor.
func (b *Broadcaster) push(playerID string, sender chan<- []byte, payload []byte, action string) {
	select {
	case sender <- payload:
	default:
		b.log.WithFields(logrus.Fields{
			"player": playerID,
			"action": action,
		}).Warn("Writer channel full, dropping outbound message")
	}
}
