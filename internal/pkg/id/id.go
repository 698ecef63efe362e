package id

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Token returns the 16-character entropy part of a ULID minted at t, lower-cased.
// It carries 80 random bits, enough to keep object keys minted in the same
// millisecond apart.
func Token(t time.Time) string {
	u := ulid.MustNew(ulid.Timestamp(t), rand.Reader)
	return strings.ToLower(u.String()[10:])
}
