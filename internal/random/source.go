package random

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

// Source fills buffers with random bytes.
type Source interface {
	Fill(buf []byte) error
}

// CryptoSource reads from crypto/rand.
type CryptoSource struct {
	mu sync.Mutex
}

// NewCryptoSource returns a source backed by the operating system CSPRNG.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Fill implements Source.
func (s *CryptoSource) Fill(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("read crypto/rand: %w", err)
	}
	return nil
}

// ReaderSource adapts an io.Reader to the Source interface.
type ReaderSource struct {
	mu sync.Mutex
	r  io.Reader
}

// NewReaderSource wraps r. Short reads are retried until buf is full.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Fill implements Source.
func (s *ReaderSource) Fill(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.ReadFull(s.r, buf); err != nil {
		return fmt.Errorf("read random source: %w", err)
	}
	return nil
}

// defaultSource is used by samplers constructed without a source.
// It can be overridden for testing.
var defaultSource Source = NewCryptoSource()

// Default returns the package default source.
func Default() Source {
	return defaultSource
}
