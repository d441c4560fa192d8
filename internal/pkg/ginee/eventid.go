package ginee

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const generatedEventIDPrefix = "ginee_"

// NewEventID synthesizes an event id for payloads that arrive without one.
// Uniqueness is practical, not cryptographic: a nanosecond timestamp plus 64
// random bits.
func NewEventID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s%d_%s", generatedEventIDPrefix, now.UnixNano(), random[:16])
}

// IsGeneratedEventID reports whether id was produced by NewEventID.
func IsGeneratedEventID(id string) bool {
	return strings.HasPrefix(id, generatedEventIDPrefix)
}
