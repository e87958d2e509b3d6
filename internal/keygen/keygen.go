// Package keygen derives textbook RSA key material from two sampled
// probable primes.
package keygen

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/vaultsandbox/textbookrsa/internal/arith"
	"github.com/vaultsandbox/textbookrsa/internal/prime"
	"github.com/vaultsandbox/textbookrsa/internal/random"
	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

// DefaultMaxExponentAttempts bounds the search for a private exponent
// coprime to the totient.
const DefaultMaxExponentAttempts = 1 << 10

var one = big.NewInt(1)

// Key is the generated exponent pair and modulus.
type Key struct {
	PublicExponent  *big.Int
	PrivateExponent *big.Int
	Modulus         *big.Int
}

// Generator composes the sampler, the primality tester and modular inversion.
type Generator struct {
	Sampler             *random.Sampler
	Tester              *prime.Tester
	MaxExponentAttempts int
	Logger              *zap.Logger
}

// New returns a generator whose tester shares sampler.
func New(sampler *random.Sampler, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	tester := prime.NewTester(sampler)
	tester.Logger = logger

	return &Generator{
		Sampler:             sampler,
		Tester:              tester,
		MaxExponentAttempts: DefaultMaxExponentAttempts,
		Logger:              logger,
	}
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Generator) maxExponentAttempts() int {
	if g.MaxExponentAttempts <= 0 {
		return DefaultMaxExponentAttempts
	}
	return g.MaxExponentAttempts
}

// Generate samples two probable primes of the given bit size and derives the
// exponents. With a nil publicExponent the private exponent is sampled and
// the public exponent is its inverse; otherwise the private exponent is the
// inverse of publicExponent and ErrNotInvertible is returned when
// gcd(publicExponent, totient) != 1.
//
// p and q are drawn independently and are not checked for distinctness.
func (g *Generator) Generate(bits int, publicExponent *big.Int) (*Key, error) {
	if bits < 8 || bits%8 != 0 {
		return nil, rsaerrors.InvalidArgument("Generate", "bits %d is not a positive multiple of 8", bits)
	}
	if publicExponent != nil && publicExponent.Sign() <= 0 {
		return nil, rsaerrors.InvalidArgument("Generate", "public exponent must be positive")
	}

	p, err := g.Tester.Generate(bits)
	if err != nil {
		return nil, err
	}
	q, err := g.Tester.Generate(bits)
	if err != nil {
		return nil, err
	}
	if p.Cmp(q) == 0 {
		g.logger().Warn("sampled primes are equal", zap.Int("bits", bits))
	}

	key, err := g.derive(bits, p, q, publicExponent)
	if err != nil {
		return nil, err
	}

	g.logger().Info("key pair generated",
		zap.Int("bits", bits),
		zap.Int("modulusBits", key.Modulus.BitLen()),
		zap.Bool("suppliedExponent", publicExponent != nil))

	return key, nil
}

// derive computes the modulus and exponents from p and q.
func (g *Generator) derive(bits int, p, q, publicExponent *big.Int) (*Key, error) {
	modulus := new(big.Int).Mul(p, q)
	totient := new(big.Int).Mul(
		new(big.Int).Sub(p, one),
		new(big.Int).Sub(q, one),
	)

	if publicExponent != nil {
		e := new(big.Int).Set(publicExponent)
		d, err := arith.ModularInverse(e, totient)
		if err != nil {
			return nil, err
		}
		return &Key{PublicExponent: e, PrivateExponent: d, Modulus: modulus}, nil
	}

	d, err := g.privateExponent(bits, totient)
	if err != nil {
		return nil, err
	}
	e, err := arith.ModularInverse(d, totient)
	if err != nil {
		return nil, err
	}
	return &Key{PublicExponent: e, PrivateExponent: d, Modulus: modulus}, nil
}

// privateExponent samples candidates until one is coprime to totient.
func (g *Generator) privateExponent(bits int, totient *big.Int) (*big.Int, error) {
	limit := g.maxExponentAttempts()
	for attempt := 1; attempt <= limit; attempt++ {
		candidate, err := g.Sampler.OfBitSize(bits)
		if err != nil {
			return nil, err
		}
		if arith.Coprime(candidate, totient) {
			g.logger().Debug("private exponent found", zap.Int("attempts", attempt))
			return candidate, nil
		}
	}

	return nil, &rsaerrors.GenerationError{Stage: rsaerrors.StageExponent, Attempts: limit}
}
