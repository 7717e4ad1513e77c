package layer

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDFunc mints a fresh layer identifier on every call. Identifiers must
// never repeat within a process and must not collide with ids already in
// the document.
type IDFunc func() string

// IDStyle selects a production identifier generator.
type IDStyle string

const (
	IDStyleUUID    IDStyle = "uuid"    // RFC 4122 random UUIDs
	IDStyleCompact IDStyle = "compact" // short base36 random + time ids
)

// Generator returns the IDFunc for style. Unknown styles fall back to UUIDs.
func Generator(style IDStyle) IDFunc {
	if style == IDStyleCompact {
		return NewCompactID
	}
	return NewUUID
}

// NewUUID returns a random UUID string.
func NewUUID() string {
	return uuid.NewString()
}

var compactSeq atomic.Uint64

// NewCompactID returns a short id made of 64 random bits followed by the
// current time in milliseconds, both in base36. A process-wide counter is
// mixed into the random part so two calls in the same millisecond never
// collide even if the entropy source repeats.
func NewCompactID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("layer: reading entropy: %v", err))
	}
	r := binary.LittleEndian.Uint64(b[:]) ^ compactSeq.Add(1)
	return strconv.FormatUint(r, 36) + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// Sequence returns a deterministic IDFunc yielding prefix1, prefix2, ...
// It is safe for concurrent use and is meant for tests and fixtures.
func Sequence(prefix string) IDFunc {
	var n atomic.Uint64
	return func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	}
}
