package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeTagged marshals body's fields into a MessagePack map with the
// discriminant "action" key added. Field names are preserved (named variant
// encoding), matching what the game clients expect.
func EncodeTagged(action string, body interface{}) ([]byte, error) {
	raw, err := msgpack.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", action, err)
	}
	var fields map[string]msgpack.RawMessage
	if err := msgpack.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", action, err)
	}
	if fields == nil {
		fields = make(map[string]msgpack.RawMessage, 1)
	}
	actionRaw, err := msgpack.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", action, err)
	}
	fields["action"] = actionRaw
	return msgpack.Marshal(fields)
}

// DecodeAction extracts the discriminant from a payload without decoding the
// rest of the map.
func DecodeAction(payload []byte) (string, error) {
	var env struct {
		Action string `msgpack:"action"`
	}
	if err := msgpack.Unmarshal(payload, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Action == "" {
		return "", fmt.Errorf("%w: missing action", ErrMalformed)
	}
	return env.Action, nil
}

// EncodeTaggedJSON is the JSON twin of EncodeTagged, used for diagnostics and
// log output only; the wire stays MessagePack.
func EncodeTaggedJSON(action string, body interface{}) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	actionRaw, err := json.Marshal(action)
	if err != nil {
		return "", err
	}
	fields["action"] = actionRaw
	out, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
