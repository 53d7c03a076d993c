// Package protocol implements the length-prefixed wire framing and the tagged
// MessagePack codec shared by the c2s and s2c message packages.
//
// A frame is a 4-byte big-endian payload length followed by that many payload
// bytes. The payload is a MessagePack map whose "action" key discriminates the
// message variant; the remaining keys are the variant's fields.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize caps accepted payloads. Anything larger is protocol abuse
// and terminates the connection.
const MaxMessageSize = 256 * 1024

var (
	// ErrEmptyFrame marks a zero-length frame. Recoverable.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrOversized marks a frame above MaxMessageSize. Fatal to the connection.
	ErrOversized = errors.New("oversized frame")
	// ErrMalformed marks a payload that failed to decode. Recoverable.
	ErrMalformed = errors.New("malformed message")
)

// ReadFrame reads one framed payload. Empty and oversized frames are reported
// without consuming the (alleged) payload bytes; the caller decides whether
// the connection survives.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length == 0 {
		return nil, ErrEmptyFrame
	}
	if length > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrOversized, length, MaxMessageSize)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes the length header and payload as a single write so the
// kernel sees whole frames.
func WriteFrame(w io.Writer, payload []byte) error {
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[4:], payload)
	_, err := w.Write(buf)
	return err
}
