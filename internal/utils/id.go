package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID returns a best-effort unique endpoint identifier.
func NewID() string {
	const size = 12

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	// Fallback to timestamp if crypto/rand is unavailable.
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// shortCodeAlphabet omits lookalike characters so codes survive being read aloud.
const shortCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewShortCode returns a 6-character human-enterable code, used for session
// access codes and secondary-device pairing codes.
func NewShortCode() string {
	const size = 6

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		// Degrade to a timestamp-derived code rather than failing the caller.
		ts := time.Now().UnixNano()
		for i := range buf {
			buf[i] = byte(ts >> (i * 8))
		}
	}
	out := make([]byte, size)
	for i, b := range buf {
		out[i] = shortCodeAlphabet[int(b)%len(shortCodeAlphabet)]
	}
	return string(out)
}
