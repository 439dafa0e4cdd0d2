package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewReservationID builds the human-facing reservation identifier
// printed on confirmations and invoices.  It encodes the submission
// moment plus a short random suffix so staff can read the date straight
// off the id while collisions stay practically impossible.
func NewReservationID(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the clock's nanoseconds just in case.
		return fmt.Sprintf("RSV-%s-%06d", now.Format("20060102-150405"), now.Nanosecond()%1000000)
	}
	return fmt.Sprintf("RSV-%s-%s", now.Format("20060102-150405"), hex.EncodeToString(buf))
}
