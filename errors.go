package textbookrsa

import "github.com/vaultsandbox/textbookrsa/internal/rsaerrors"

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidArgument is returned for out-of-domain inputs: a bit size
	// that is not a positive multiple of 8, a non-positive exponent or bound,
	// a modulus too small to hold a block, or malformed ciphertext.
	ErrInvalidArgument = rsaerrors.ErrInvalidArgument

	// ErrNotInvertible is returned when the supplied public exponent shares
	// a factor with the totient.
	ErrNotInvertible = rsaerrors.ErrNotInvertible

	// ErrGenerationFailed is returned when a prime search, private exponent
	// search or rejection-sampling loop exceeds its retry ceiling.
	ErrGenerationFailed = rsaerrors.ErrGenerationFailed

	// ErrNoKey is returned by key accessors before KeyGen has succeeded.
	ErrNoKey = rsaerrors.ErrNoKey
)

// GenerationError reports which sampling loop exhausted its attempts.
// It matches ErrGenerationFailed.
type GenerationError = rsaerrors.GenerationError

// ArgumentError describes a rejected argument. It matches ErrInvalidArgument.
type ArgumentError = rsaerrors.ArgumentError

// Generation stages reported by GenerationError.
const (
	StageSample   = rsaerrors.StageSample
	StagePrime    = rsaerrors.StagePrime
	StageExponent = rsaerrors.StageExponent
)
