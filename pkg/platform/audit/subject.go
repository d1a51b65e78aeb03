package audit

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// SubjectHasher produces stable, keyed digests of personal identifiers so
// events can be correlated without storing the identifier itself.
type SubjectHasher struct {
	key []byte
}

// NewSubjectHasher returns a hasher keyed with key (at most 64 bytes).
// An empty key is allowed but makes digests guessable for 13-digit IDs.
func NewSubjectHasher(key []byte) (*SubjectHasher, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("subject hash key must be at most %d bytes, got %d", blake2b.Size, len(key))
	}
	return &SubjectHasher{key: append([]byte(nil), key...)}, nil
}

// Hash returns the hex-encoded 256-bit keyed BLAKE2b digest of subject.
func (h *SubjectHasher) Hash(subject string) string {
	if h == nil || subject == "" {
		return ""
	}
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// Key length is checked in NewSubjectHasher.
		return ""
	}
	mac.Write([]byte(subject))
	return hex.EncodeToString(mac.Sum(nil))
}
