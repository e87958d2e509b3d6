package textbookrsa

import (
	"io"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/vaultsandbox/textbookrsa/internal/codec"
	"github.com/vaultsandbox/textbookrsa/internal/keygen"
	"github.com/vaultsandbox/textbookrsa/internal/random"
	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
	"github.com/vaultsandbox/textbookrsa/internal/textconv"
)

// RandomSource supplies random bytes to key generation.
type RandomSource = random.Source

// TextCodec converts between message text and the bytes that are encrypted.
type TextCodec = textconv.Codec

// Built-in text codecs.
var (
	// UTF8 encrypts the UTF-8 bytes of a string unchanged.
	UTF8 TextCodec = textconv.UTF8
	// UTF16LE encrypts two little-endian bytes per UTF-16 code unit.
	UTF16LE TextCodec = textconv.UTF16LE
)

// TextCodecByName returns the built-in codec for "utf-8" or "utf-16le".
func TextCodecByName(name string) (TextCodec, error) {
	return textconv.ByName(name)
}

// NewDeterministicSource returns a reproducible source seeded from seed and
// label. It is meant for tests and demonstrations, never for real keys.
func NewDeterministicSource(seed []byte, label string) (RandomSource, error) {
	return random.NewDeterministicSource(seed, label)
}

// NewReaderSource adapts r, for example a file of recorded entropy.
func NewReaderSource(r io.Reader) RandomSource {
	return random.NewReaderSource(r)
}

// RSA holds the most recently generated key pair and the components used to
// generate it and to encode messages.
//
// An RSA is safe for concurrent use. Encode and Decode take explicit
// exponents and do not depend on the stored key.
type RSA struct {
	cfg       *config
	generator *keygen.Generator
	codec     *codec.Codec
	logger    *zap.Logger

	mu  sync.RWMutex
	key *KeyPair
}

// New creates an RSA session without a key. Call KeyGen before using the
// key accessors.
func New(opts ...Option) *RSA {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sampler := random.NewSampler(cfg.source, cfg.maxSampleAttempts)
	generator := keygen.New(sampler, cfg.logger.Named("keygen"))
	generator.MaxExponentAttempts = cfg.maxExponentAttempts
	generator.Tester.Rounds = cfg.rounds
	generator.Tester.MaxAttempts = cfg.maxPrimeAttempts

	return &RSA{
		cfg:       cfg,
		generator: generator,
		codec:     codec.New(cfg.logger.Named("codec")),
		logger:    cfg.logger,
	}
}

// KeyGen generates two probable primes of the given bit size and derives a
// key pair from them, replacing any previous key.
//
// With a nil publicExponent the private exponent is sampled and the public
// exponent is its inverse. Otherwise the private exponent is the inverse of
// publicExponent and ErrNotInvertible is returned when publicExponent shares
// a factor with the totient; retrying with fresh primes is up to the caller.
//
// On error the previous key, if any, is kept.
func (r *RSA) KeyGen(bits int, publicExponent *big.Int) error {
	key, err := r.generator.Generate(bits, publicExponent)
	if err != nil {
		return err
	}

	kp := &KeyPair{
		PublicExponent:  key.PublicExponent,
		PrivateExponent: key.PrivateExponent,
		Modulus:         key.Modulus,
		Bits:            bits,
	}

	r.mu.Lock()
	r.key = kp
	r.mu.Unlock()

	return nil
}

// SetKeyPair installs an existing key pair in place of the generated one.
// The pair is copied and must pass ValidateKeyPair.
func (r *RSA) SetKeyPair(kp *KeyPair) error {
	if !ValidateKeyPair(kp) {
		return rsaerrors.InvalidArgument("SetKeyPair", "key pair failed validation")
	}

	r.mu.Lock()
	r.key = kp.Clone()
	r.mu.Unlock()

	r.logger.Info("key pair installed", zap.Int("modulusBits", kp.Modulus.BitLen()))
	return nil
}

// KeyPair returns a copy of the current key pair, or ErrNoKey.
func (r *RSA) KeyPair() (*KeyPair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.key == nil {
		return nil, ErrNoKey
	}
	return r.key.Clone(), nil
}

// PublicExponent returns a copy of e, or ErrNoKey.
func (r *RSA) PublicExponent() (*big.Int, error) {
	return r.keyField(func(k *KeyPair) *big.Int { return k.PublicExponent })
}

// PrivateExponent returns a copy of d, or ErrNoKey.
func (r *RSA) PrivateExponent() (*big.Int, error) {
	return r.keyField(func(k *KeyPair) *big.Int { return k.PrivateExponent })
}

// Modulus returns a copy of n, or ErrNoKey.
func (r *RSA) Modulus() (*big.Int, error) {
	return r.keyField(func(k *KeyPair) *big.Int { return k.Modulus })
}

func (r *RSA) keyField(field func(*KeyPair) *big.Int) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.key == nil {
		return nil, ErrNoKey
	}
	return cloneInt(field(r.key)), nil
}

// Encode converts message to bytes with the configured text codec and
// encrypts it under (exponent, modulus). The result is a string of raw
// ciphertext bytes, one fixed-width block per plaintext block.
func (r *RSA) Encode(message string, exponent, modulus *big.Int) (string, error) {
	data, err := r.cfg.textCodec.Bytes(message)
	if err != nil {
		return "", err
	}
	out, err := r.EncodeBytes(data, exponent, modulus)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Decode reverses Encode given the matching exponent.
func (r *RSA) Decode(ciphertext string, exponent, modulus *big.Int) (string, error) {
	data, err := r.DecodeBytes([]byte(ciphertext), exponent, modulus)
	if err != nil {
		return "", err
	}
	return r.cfg.textCodec.Text(data)
}

// EncodeBytes encrypts raw bytes under (exponent, modulus).
func (r *RSA) EncodeBytes(data []byte, exponent, modulus *big.Int) ([]byte, error) {
	return r.codec.Encrypt(data, exponent, modulus)
}

// DecodeBytes decrypts ciphertext produced by EncodeBytes. Zero bytes at the
// end of the plaintext are indistinguishable from block padding and are
// dropped.
func (r *RSA) DecodeBytes(ciphertext []byte, exponent, modulus *big.Int) ([]byte, error) {
	return r.codec.Decrypt(ciphertext, exponent, modulus)
}

// BlockSizes reports the plaintext and ciphertext block widths in bytes for
// modulus.
func BlockSizes(modulus *big.Int) (plain, cipher int, err error) {
	return codec.BlockSizes(modulus)
}

// GenerateKeyPair is a one-shot form of New followed by KeyGen.
func GenerateKeyPair(bits int, publicExponent *big.Int, opts ...Option) (*KeyPair, error) {
	r := New(opts...)
	if err := r.KeyGen(bits, publicExponent); err != nil {
		return nil, err
	}
	return r.KeyPair()
}
