package random

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

// constSource fills every buffer with the same byte.
type constSource byte

func (c constSource) Fill(buf []byte) error {
	for i := range buf {
		buf[i] = byte(c)
	}
	return nil
}

// failingSource always returns err.
type failingSource struct{ err error }

func (f failingSource) Fill([]byte) error { return f.err }

func newTestSampler(t *testing.T) *Sampler {
	t.Helper()
	src, err := NewDeterministicSource([]byte(t.Name()), "sampler")
	if err != nil {
		t.Fatal(err)
	}
	return NewSampler(src, 0)
}

func TestOfBitSize_InvalidBits(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	for _, bits := range []int{1, 7, 9, 12, 127, -8} {
		t.Run(fmt.Sprint(bits), func(t *testing.T) {
			_, err := s.OfBitSize(bits)
			if !errors.Is(err, rsaerrors.ErrInvalidArgument) {
				t.Errorf("OfBitSize(%d) expected ErrInvalidArgument, got %v", bits, err)
			}
		})
	}
}

func TestOfBitSize_Range(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	for _, bits := range []int{8, 16, 64, 128, 256} {
		t.Run(fmt.Sprint(bits), func(t *testing.T) {
			limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
			for range 200 {
				v, err := s.OfBitSize(bits)
				if err != nil {
					t.Fatalf("OfBitSize() error = %v", err)
				}
				if v.Sign() < 0 {
					t.Fatalf("OfBitSize() = %v, want non-negative", v)
				}
				if v.Cmp(limit) >= 0 {
					t.Fatalf("OfBitSize() = %v, want < 2^%d", v, bits-1)
				}
			}
		})
	}
}

func TestOfBitSize_Zero(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	v, err := s.OfBitSize(0)
	if err != nil {
		t.Fatalf("OfBitSize(0) error = %v", err)
	}
	if v.Sign() != 0 {
		t.Errorf("OfBitSize(0) = %v, want 0", v)
	}
}

func TestOfBitSize_ClearsTopBit(t *testing.T) {
	t.Parallel()
	s := NewSampler(constSource(0xff), 0)

	v, err := s.OfBitSize(16)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64() != 0x7fff {
		t.Errorf("OfBitSize(16) = %#x, want 0x7fff", v.Int64())
	}
}

func TestBelow_InvalidBound(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	tests := []struct {
		name  string
		bound *big.Int
	}{
		{"nil", nil},
		{"zero", big.NewInt(0)},
		{"negative", big.NewInt(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Below(tt.bound)
			if !errors.Is(err, rsaerrors.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestBelow_Range(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	bounds := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(3),
		big.NewInt(255),
		big.NewInt(256),
		big.NewInt(257),
		new(big.Int).Lsh(big.NewInt(1), 127),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 200), big.NewInt(17)),
	}

	for _, bound := range bounds {
		t.Run(bound.String(), func(t *testing.T) {
			for range 200 {
				v, err := s.Below(bound)
				if err != nil {
					t.Fatalf("Below() error = %v", err)
				}
				if v.Sign() < 0 || v.Cmp(bound) >= 0 {
					t.Fatalf("Below(%v) = %v, out of range", bound, v)
				}
			}
		})
	}
}

func TestBelow_CoversSmallRange(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)
	bound := big.NewInt(6)

	seen := make(map[int64]bool)
	for range 500 {
		v, err := s.Below(bound)
		if err != nil {
			t.Fatal(err)
		}
		seen[v.Int64()] = true
	}

	for i := int64(0); i < 6; i++ {
		if !seen[i] {
			t.Errorf("value %d never drawn in 500 samples", i)
		}
	}
}

func TestBelow_RetryCeiling(t *testing.T) {
	t.Parallel()
	// 0xff masked to 3 bits is 7, which is never below 5.
	s := NewSampler(constSource(0xff), 10)

	_, err := s.Below(big.NewInt(5))
	if !errors.Is(err, rsaerrors.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	var genErr *rsaerrors.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatal("expected *GenerationError")
	}
	if genErr.Attempts != 10 || genErr.Stage != rsaerrors.StageSample {
		t.Errorf("GenerationError = %+v, want sample stage with 10 attempts", genErr)
	}
}

func TestSampler_SourceError(t *testing.T) {
	t.Parallel()
	boom := errors.New("entropy exhausted")
	s := NewSampler(failingSource{err: boom}, 0)

	if _, err := s.OfBitSize(64); !errors.Is(err, boom) {
		t.Errorf("OfBitSize() expected source error, got %v", err)
	}
	if _, err := s.Below(big.NewInt(100)); !errors.Is(err, boom) {
		t.Errorf("Below() expected source error, got %v", err)
	}
}

func TestInRange(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	tests := []struct {
		name   string
		lo, hi int64
	}{
		{"single value", 3, 3},
		{"witness range of 7", 3, 4},
		{"wide", 3, 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := big.NewInt(tt.lo), big.NewInt(tt.hi)
			for range 100 {
				v, err := s.InRange(lo, hi)
				if err != nil {
					t.Fatalf("InRange() error = %v", err)
				}
				if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
					t.Fatalf("InRange(%d, %d) = %v", tt.lo, tt.hi, v)
				}
			}
		})
	}
}

func TestInRange_Empty(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t)

	_, err := s.InRange(big.NewInt(3), big.NewInt(2))
	if !errors.Is(err, rsaerrors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSampler_NilSourceUsesDefault(t *testing.T) {
	restore := SetDefaultForTesting(constSource(0x01))
	defer restore()

	s := &Sampler{}
	v, err := s.OfBitSize(8)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64() != 1 {
		t.Errorf("OfBitSize(8) = %v, want 1 from default source", v)
	}
}

func BenchmarkBelow(b *testing.B) {
	s := NewSampler(NewCryptoSource(), 0)
	bound := new(big.Int).Lsh(big.NewInt(1), 1023)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Below(bound)
	}
}
