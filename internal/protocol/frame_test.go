package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameBytes(payload []byte) []byte {
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[4:], payload)
	return buf
}

func TestReadFrameRoundTrip(t *testing.T) {
	payload := []byte("hello")
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameEmpty(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(frameBytes(nil)))
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestReadFrameOversized(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], MaxMessageSize+1)
	_, err := ReadFrame(bytes.NewReader(header[:]))
	assert.ErrorIs(t, err, ErrOversized)
}

func TestReadFrameHugeLengthDoesNotAllocate(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 10_000_000)
	_, err := ReadFrame(bytes.NewReader(header[:]))
	assert.ErrorIs(t, err, ErrOversized)
}

func TestReadFrameMaxSizeAccepted(t *testing.T) {
	payload := make([]byte, MaxMessageSize)
	got, err := ReadFrame(bytes.NewReader(frameBytes(payload)))
	require.NoError(t, err)
	assert.Len(t, got, MaxMessageSize)
}

func TestReadFrameShortPayload(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 10)
	data := append(header[:], []byte("abc")...)
	_, err := ReadFrame(bytes.NewReader(data))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadFrameEOF(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeActionMissing(t *testing.T) {
	payload, err := EncodeTagged("k", struct{}{})
	require.NoError(t, err)
	action, err := DecodeAction(payload)
	require.NoError(t, err)
	assert.Equal(t, "k", action)

	_, err = DecodeAction([]byte{0x80}) // empty map
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeAction([]byte{0xc3}) // bare true
	assert.ErrorIs(t, err, ErrMalformed)
}
