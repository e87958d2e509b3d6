package random

import (
	"math/big"

	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

// DefaultMaxAttempts bounds the rejection loop in Below. Each draw is
// accepted with probability above 1/2, so the ceiling is only reached by a
// broken source.
const DefaultMaxAttempts = 128

var one = big.NewInt(1)

// Sampler draws integers from a Source.
type Sampler struct {
	// Source supplies the random bytes. Nil means Default().
	Source Source
	// MaxAttempts bounds rejection sampling. Zero or negative means DefaultMaxAttempts.
	MaxAttempts int
}

// NewSampler returns a sampler over src.
func NewSampler(src Source, maxAttempts int) *Sampler {
	return &Sampler{Source: src, MaxAttempts: maxAttempts}
}

func (s *Sampler) source() Source {
	if s.Source == nil {
		return Default()
	}
	return s.Source
}

func (s *Sampler) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}

// OfBitSize returns a non-negative integer drawn from bits/8 random bytes
// with the top bit of the most significant byte cleared.
// bits must be a non-negative multiple of 8.
func (s *Sampler) OfBitSize(bits int) (*big.Int, error) {
	if bits < 0 || bits%8 != 0 {
		return nil, rsaerrors.InvalidArgument("OfBitSize", "bits %d is not a non-negative multiple of 8", bits)
	}
	if bits == 0 {
		return new(big.Int), nil
	}

	buf := make([]byte, bits/8)
	if err := s.source().Fill(buf); err != nil {
		return nil, err
	}
	buf[0] &= 0x7f

	return new(big.Int).SetBytes(buf), nil
}

// Below returns a uniformly distributed integer in [0, bound).
func (s *Sampler) Below(bound *big.Int) (*big.Int, error) {
	if bound == nil || bound.Cmp(one) < 0 {
		return nil, rsaerrors.InvalidArgument("Below", "bound must be at least 1")
	}

	bitLen := bound.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	// Bits above the bound's length are masked off so every draw lands
	// below 2^bitLen.
	mask := byte(0xff >> (len(buf)*8 - bitLen))

	src := s.source()
	limit := s.maxAttempts()
	candidate := new(big.Int)
	for range limit {
		if err := src.Fill(buf); err != nil {
			return nil, err
		}
		buf[0] &= mask
		candidate.SetBytes(buf)
		if candidate.Cmp(bound) < 0 {
			return candidate, nil
		}
	}

	return nil, &rsaerrors.GenerationError{Stage: rsaerrors.StageSample, Attempts: limit}
}

// InRange returns a uniformly distributed integer in the closed interval [lo, hi].
func (s *Sampler) InRange(lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil || hi.Cmp(lo) < 0 {
		return nil, rsaerrors.InvalidArgument("InRange", "empty range")
	}

	width := new(big.Int).Sub(hi, lo)
	width.Add(width, one)

	v, err := s.Below(width)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}
