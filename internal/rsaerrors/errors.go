// Package rsaerrors provides shared error types for the textbook RSA packages.
package rsaerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidArgument is returned for out-of-domain inputs such as a
	// non-positive bound or a bit size that is not a multiple of 8.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotInvertible is returned when a modular inverse is requested for
	// a pair that is not coprime.
	ErrNotInvertible = errors.New("value is not invertible")

	// ErrGenerationFailed is returned when a sampling loop exceeds its
	// retry ceiling.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrNoKey is returned when key accessors are used before key generation.
	ErrNoKey = errors.New("no key has been generated")
)

// Stage identifies which sampling loop produced a GenerationError.
type Stage string

const (
	// StageSample is the rejection sampling loop behind a bounded draw.
	StageSample Stage = "sample"
	// StagePrime is the probable prime search.
	StagePrime Stage = "prime"
	// StageExponent is the search for a private exponent coprime to the totient.
	StageExponent Stage = "exponent"
)

// GenerationError reports a sampling loop that gave up after Attempts tries.
type GenerationError struct {
	Stage    Stage
	Attempts int
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed after %d attempts", e.Stage, e.Attempts)
}

// Is implements errors.Is for sentinel error matching.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// ArgumentError describes a rejected argument.
type ArgumentError struct {
	Op      string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("invalid argument: %s", e.Message)
	}
	return fmt.Sprintf("%s: invalid argument: %s", e.Op, e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvalidArgument builds an ArgumentError with a formatted message.
func InvalidArgument(op, format string, args ...any) error {
	return &ArgumentError{Op: op, Message: fmt.Sprintf(format, args...)}
}
