package internal

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"
)

// FileDigest computes the SHA256 hash of a file's content, streaming it so
// large videos never load into memory.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// DigestSet tracks content digests seen during a run. First writer claims
// uniqueness; every later file with the same digest is a duplicate.
type DigestSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDigestSet() *DigestSet {
	return &DigestSet{seen: make(map[string]struct{})}
}

// Seen records the digest and reports whether it was already present.
func (s *DigestSet) Seen(digest string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[digest]; ok {
		return true
	}
	s.seen[digest] = struct{}{}
	return false
}

// Len returns the number of distinct digests recorded so far.
func (s *DigestSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
