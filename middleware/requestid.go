package middleware

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// HeaderRequestID carries a caller-chosen request id over HTTP. The gRPC
// adapters use the lowercase form as a metadata key.
const HeaderRequestID = "X-Request-ID"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewRequestID returns a sortable identifier for calls that arrive without one.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func requestIDOr(id string) string {
	if id != "" {
		return id
	}
	return NewRequestID()
}
