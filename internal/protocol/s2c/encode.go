package s2c

import (
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol"
)

// serializationFailure is the pre-encoded fallback payload sent when a
// message refuses to encode, so outbound encoding never fails observably.
var serializationFailure = mustEncodeError("Serialization failed")

func mustEncodeError(message string) []byte {
	payload, err := msgpack.Marshal(map[string]string{
		"action":  "error",
		"message": message,
	})
	if err != nil {
		panic(err)
	}
	return payload
}

// Encode marshals a message into its framed payload bytes. On internal
// failure it logs and returns the canned serialization-failure error payload;
// callers never see an error.
func Encode(msg Message) []byte {
	payload, err := protocol.EncodeTagged(msg.Action(), msg)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"action": msg.Action(),
			"error":  err,
		}).Error("Failed to encode outbound message")
		return serializationFailure
	}
	return payload
}

// ToJSON renders a message as a tagged JSON object for diagnostics/logging.
func ToJSON(msg Message) string {
	out, err := protocol.EncodeTaggedJSON(msg.Action(), msg)
	if err != nil {
		return `{"action":"error","message":"Serialization failed"}`
	}
	return out
}
