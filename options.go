package textbookrsa

import (
	"go.uber.org/zap"

	"github.com/vaultsandbox/textbookrsa/internal/keygen"
	"github.com/vaultsandbox/textbookrsa/internal/prime"
	"github.com/vaultsandbox/textbookrsa/internal/random"
	"github.com/vaultsandbox/textbookrsa/internal/textconv"
)

const (
	// DefaultBits is the prime size used when callers have no preference.
	DefaultBits = 128

	// DefaultPublicExponent is the conventional public exponent 2^16+1.
	DefaultPublicExponent = 65537

	// DefaultRounds is the number of Miller-Rabin rounds per candidate.
	DefaultRounds = prime.DefaultRounds

	defaultMaxPrimeAttempts    = prime.DefaultMaxAttempts
	defaultMaxExponentAttempts = keygen.DefaultMaxExponentAttempts
	defaultMaxSampleAttempts   = random.DefaultMaxAttempts
)

// config holds configuration for an RSA session.
type config struct {
	source              RandomSource
	rounds              int
	maxPrimeAttempts    int
	maxExponentAttempts int
	maxSampleAttempts   int
	textCodec           TextCodec
	logger              *zap.Logger
}

func defaultConfig() *config {
	return &config{
		source:              random.Default(),
		rounds:              DefaultRounds,
		maxPrimeAttempts:    defaultMaxPrimeAttempts,
		maxExponentAttempts: defaultMaxExponentAttempts,
		maxSampleAttempts:   defaultMaxSampleAttempts,
		textCodec:           textconv.UTF8,
		logger:              zap.NewNop(),
	}
}

// Option configures an RSA session.
type Option func(*config)

// WithSource sets the random source used for prime sampling, witnesses and
// private exponents. Default: crypto/rand.
func WithSource(src RandomSource) Option {
	return func(c *config) {
		if src != nil {
			c.source = src
		}
	}
}

// WithRounds sets the number of Miller-Rabin rounds per candidate.
// Default: 30
func WithRounds(rounds int) Option {
	return func(c *config) {
		c.rounds = rounds
	}
}

// WithMaxPrimeAttempts caps the number of candidates drawn per prime.
// Default: 65536
func WithMaxPrimeAttempts(n int) Option {
	return func(c *config) {
		c.maxPrimeAttempts = n
	}
}

// WithMaxExponentAttempts caps the search for a private exponent coprime to
// the totient.
// Default: 1024
func WithMaxExponentAttempts(n int) Option {
	return func(c *config) {
		c.maxExponentAttempts = n
	}
}

// WithMaxSampleAttempts caps each rejection-sampling draw.
// Default: 128
func WithMaxSampleAttempts(n int) Option {
	return func(c *config) {
		c.maxSampleAttempts = n
	}
}

// WithTextCodec sets the text/byte conversion applied to plaintext.
// Default: UTF8
func WithTextCodec(codec TextCodec) Option {
	return func(c *config) {
		if codec != nil {
			c.textCodec = codec
		}
	}
}

// WithLogger sets the structured logger. Key material is never logged.
// Default: a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
