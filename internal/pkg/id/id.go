package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort lexicographically by creation
// time, which keeps report IDs and delivery message IDs ordered for free.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
