// Package idgen generates record identifiers.
package idgen

import (
	"crypto/sha1" // #nosec G505 - identifiers, not security
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDLength is the length of a generated identifier in hex characters.
const IDLength = sha1.Size * 2

// Generator produces identifiers that are not yet taken.
type Generator interface {
	// Generate returns a new ID for a record. exists reports whether an ID is
	// already in use; Generate retries until it finds one that is not.
	Generate(title, author string, exists func(id string) bool) string
}

// HashID returns the lowercase hex SHA-1 digest of the concatenated parts.
func HashID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, ""))) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// HashGenerator derives IDs from the title, the author, the current time and
// a random salt, so two records with the same title never share an ID.
type HashGenerator struct {
	Now func() time.Time
}

// NewHashGenerator returns a HashGenerator using the wall clock.
func NewHashGenerator() *HashGenerator {
	return &HashGenerator{Now: time.Now}
}

func (g *HashGenerator) Generate(title, author string, exists func(string) bool) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	for {
		ts := strconv.FormatInt(now().UnixNano(), 10)
		id := HashID(title, author, ts, uuid.NewString())
		if exists == nil || !exists(id) {
			return id
		}
	}
}

// ContentGenerator derives IDs from the title alone, appending a counter on
// collision. IDs are reproducible, which makes it useful for tests and
// for B_SIMPLE_HASHING.
type ContentGenerator struct{}

func (ContentGenerator) Generate(title, _ string, exists func(string) bool) string {
	id := HashID(title)
	for nonce := 1; exists != nil && exists(id); nonce++ {
		id = HashID(title, "|", strconv.Itoa(nonce))
	}
	return id
}
