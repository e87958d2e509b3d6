// Package prime implements the Miller-Rabin probabilistic primality test and
// the probable-prime search used by key generation.
package prime

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/vaultsandbox/textbookrsa/internal/random"
	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

const (
	// DefaultRounds is the number of Miller-Rabin witnesses tried per
	// candidate. A composite survives with probability at most 4^-30.
	DefaultRounds = 30

	// DefaultMaxAttempts bounds the number of candidates drawn by Generate.
	DefaultMaxAttempts = 1 << 16
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	five  = big.NewInt(5)
)

// Tester runs Miller-Rabin with witnesses drawn from Sampler.
type Tester struct {
	Sampler     *random.Sampler
	Rounds      int
	MaxAttempts int
	Logger      *zap.Logger
}

// NewTester returns a tester with default rounds and attempt ceiling.
func NewTester(sampler *random.Sampler) *Tester {
	return &Tester{
		Sampler:     sampler,
		Rounds:      DefaultRounds,
		MaxAttempts: DefaultMaxAttempts,
		Logger:      zap.NewNop(),
	}
}

func (t *Tester) rounds() int {
	if t.Rounds <= 0 {
		return DefaultRounds
	}
	return t.Rounds
}

func (t *Tester) maxAttempts() int {
	if t.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return t.MaxAttempts
}

func (t *Tester) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}

func (t *Tester) sampler() *random.Sampler {
	if t.Sampler == nil {
		return &random.Sampler{}
	}
	return t.Sampler
}

// IsProbablePrime reports whether n passes every Miller-Rabin round.
// A true result is never wrong for a prime; a composite is reported prime
// with probability at most 4^-Rounds. The error is non-nil only when the
// random source fails.
func (t *Tester) IsProbablePrime(n *big.Int) (bool, error) {
	if n.Cmp(three) <= 0 {
		return n.Cmp(two) == 0 || n.Cmp(three) == 0, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}
	// The witness range [3, n-3] is empty for 5.
	if n.Cmp(five) == 0 {
		return true, nil
	}

	nMinusOne := new(big.Int).Sub(n, one)

	// n-1 = 2^s * d with d odd
	s := nMinusOne.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinusOne, s)

	hi := new(big.Int).Sub(n, three)
	sampler := t.sampler()
	x := new(big.Int)

	for range t.rounds() {
		a, err := sampler.InRange(three, hi)
		if err != nil {
			return false, err
		}

		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}

		passed := false
		for r := uint(1); r < s; r++ {
			x.Mul(x, x).Mod(x, n)
			if x.Cmp(nMinusOne) == 0 {
				passed = true
				break
			}
			if x.Cmp(one) == 0 {
				return false, nil
			}
		}
		if !passed {
			return false, nil
		}
	}

	return true, nil
}

// Generate draws candidates of the given bit size until one is a probable
// prime. Candidates come from Sampler.OfBitSize, so the result is below
// 2^(bits-1). It fails with ErrGenerationFailed after MaxAttempts candidates.
func (t *Tester) Generate(bits int) (*big.Int, error) {
	sampler := t.sampler()
	limit := t.maxAttempts()

	for attempt := 1; attempt <= limit; attempt++ {
		candidate, err := sampler.OfBitSize(bits)
		if err != nil {
			return nil, err
		}

		ok, err := t.IsProbablePrime(candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			t.logger().Debug("probable prime found",
				zap.Int("bits", bits),
				zap.Int("attempts", attempt),
				zap.Int("bitLen", candidate.BitLen()))
			return candidate, nil
		}
	}

	t.logger().Warn("prime search exhausted", zap.Int("bits", bits), zap.Int("attempts", limit))
	return nil, &rsaerrors.GenerationError{Stage: rsaerrors.StagePrime, Attempts: limit}
}
