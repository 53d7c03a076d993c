package netutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLobbyCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := LobbyCode()
		assert.Len(t, code, LobbyCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeCharset, c), "unexpected char %q in %q", c, code)
		}
		seen[code] = true
	}
	// 36^5 codes: a hundred draws colliding down to a handful would mean a
	// broken random source.
	assert.Greater(t, len(seen), 90)
}

func TestTimeSeededStringShape(t *testing.T) {
	s := TimeSeededString(8)
	assert.Len(t, s, 9)
	assert.Equal(t, byte('*'), s[0])
	for _, c := range s[1:] {
		assert.True(t, strings.ContainsRune(codeCharset, c), "unexpected char %q in %q", c, s)
	}
}

func TestTimeSeededStringVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		seen[TimeSeededString(8)] = true
	}
	assert.Greater(t, len(seen), 1)
}
