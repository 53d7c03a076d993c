// Package netutil holds small networking and identifier helpers.
package netutil

import (
	"crypto/rand"
	"math/bits"
	"net"
	"time"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// LobbyCodeLength is the length of coordinator-minted lobby codes.
const LobbyCodeLength = 5

// LobbyCode returns a fresh lobby code from the process random source. The
// caller regenerates on directory collision.
func LobbyCode() string {
	buf := make([]byte, LobbyCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms; fall back to the
		// time mixer rather than returning a degenerate code.
		return TimeSeededString(LobbyCodeLength)[1:]
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}

// TimeSeededString generates "*" followed by n characters from [A-Z0-9],
// seeded from the current nanosecond clock and mixed per character. Used for
// server-generated game seeds.
func TimeSeededString(n int) string {
	buf := make([]byte, 0, n+1)
	buf = append(buf, '*')

	seed := uint64(time.Now().UnixNano())
	for i := 0; i < n; i++ {
		seed ^= uint64(i)
		seed = bits.RotateLeft64(seed, 7)
		buf = append(buf, codeCharset[seed%uint64(len(codeCharset))])
	}
	return string(buf)
}

// KeepAliveConfig is applied to every accepted connection; the probes are the
// server's only liveness mechanism.
var KeepAliveConfig = net.KeepAliveConfig{
	Enable:   true,
	Idle:     10 * time.Second,
	Interval: 1 * time.Second,
}

// ConfigureKeepAlive enables aggressive TCP keep-alive on a connection.
func ConfigureKeepAlive(conn *net.TCPConn) error {
	return conn.SetKeepAliveConfig(KeepAliveConfig)
}
