// Package cache memoizes computed offer sets so repeated requests for the
// same property and configuration skip the optimizer. The calculator itself
// never touches the cache; only the HTTP server does.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// DefaultTTL bounds how long a memoized offer set is served before it is
// recomputed.
const DefaultTTL = 15 * time.Minute

// Store is the minimal contract the server needs. Get reports a miss with
// ok=false and a nil error; errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key fingerprints the inputs that determine an offer set. Any two requests
// with the same fingerprint produce identical results, so the digest covers
// both the property and the calculator tuning.
func Key(property, calculatorConf any) string {
	digest := sha256.New()
	enc := json.NewEncoder(digest)
	// Encoding these structs cannot fail; both are plain numeric fields.
	_ = enc.Encode(property)
	_ = enc.Encode(calculatorConf)
	return "offers:" + hex.EncodeToString(digest.Sum(nil))
}
