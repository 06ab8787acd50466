package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key derives the cache key for a piece of text synthesized with a given
// voice and speed. Any change to the text or the narration parameters
// produces a different key, so stale audio is never reused.
func Key(text, voice string, speed float64) string {
	data := fmt.Sprintf("%s|%s|%.2f", text, voice, speed)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}
