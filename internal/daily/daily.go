// internal/daily/daily.go
//
// Deterministic daily target selection.
// Every player sees the same place on the same UTC date; the mapping from
// date to catalog index is keyed by a server-side salt so it cannot be
// predicted from the catalog alone.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TargetIndex returns HMAC-SHA256(salt, DateKey(date)) mod n, or 0 when n <= 0.
func TargetIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}
