package random

import (
	"crypto/sha512"
	"fmt"
	"io"
	"sync"

	"github.com/cloudflare/circl/xof"
	"golang.org/x/crypto/hkdf"
)

// deterministicKeySize is the number of HKDF output bytes used to key the XOF.
const deterministicKeySize = 64

// DeterministicSource produces a reproducible byte stream from a seed.
// Two sources built from the same seed and label emit identical bytes.
// It must never be used to generate real keys.
type DeterministicSource struct {
	mu     sync.Mutex
	stream xof.XOF
}

// NewDeterministicSource derives a SHAKE-256 stream from seed and label.
// The label provides domain separation between sources sharing a seed.
func NewDeterministicSource(seed []byte, label string) (*DeterministicSource, error) {
	key, err := deriveKey(seed, []byte(label), deterministicKeySize)
	if err != nil {
		return nil, err
	}

	stream := xof.SHAKE256.New()
	if _, err := stream.Write(key); err != nil {
		return nil, fmt.Errorf("seed xof: %w", err)
	}

	return &DeterministicSource{stream: stream}, nil
}

// Fill implements Source.
func (s *DeterministicSource) Fill(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.ReadFull(s.stream, buf); err != nil {
		return fmt.Errorf("read xof: %w", err)
	}
	return nil
}

// deriveKey derives a key using HKDF-SHA-512.
func deriveKey(secret, info []byte, length int) ([]byte, error) {
	salt := make([]byte, sha512.Size)

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}
