// Package random provides the secure random source used by key generation
// and the primality test.
//
// # Sources
//
// All randomness is consumed through the [Source] capability, a single
// Fill method. Three implementations are provided:
//
//   - [CryptoSource]: backed by crypto/rand. This is the default.
//   - [DeterministicSource]: a reproducible stream derived from a seed with
//     HKDF-SHA-512 and expanded with SHAKE-256. Intended for tests only.
//   - [ReaderSource]: adapts any io.Reader.
//
// Every source is safe for concurrent use.
//
// # Sampling
//
// [Sampler] turns raw bytes into integers:
//
//   - [Sampler.OfBitSize] draws bits/8 bytes and clears the top bit of the
//     most significant byte. The result is always below 2^(bits-1); the top
//     bit is never set, so callers must not assume the value has exactly
//     bits significant bits.
//   - [Sampler.Below] rejection-samples a value in [0, bound).
//   - [Sampler.InRange] draws uniformly from a closed interval.
//
// Rejection loops are bounded by Sampler.MaxAttempts and fail with
// rsaerrors.ErrGenerationFailed once the ceiling is reached.
package random
