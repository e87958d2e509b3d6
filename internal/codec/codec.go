// Package codec encrypts and decrypts byte strings with textbook RSA over
// fixed-size blocks.
//
// Plaintext is cut into blocks of ceil(floor(log2 n)/8) bytes, the final
// block zero-padded on the right. Each block is read as a little-endian
// unsigned integer m, so the padding occupies the high-order bytes, and is
// replaced by m^e mod n written big-endian and left-padded to the byte width
// of n. Fixed-width ciphertext blocks can be located without length
// prefixes.
//
// A full block can still encode a value at or above n; such blocks are
// rejected rather than silently corrupted.
//
// There is no padding scheme: equal plaintext blocks produce equal
// ciphertext blocks, and ciphertext is malleable.
package codec

import (
	"bytes"
	"math/big"

	"go.uber.org/zap"

	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

var one = big.NewInt(1)

// Codec applies modular exponentiation block by block.
type Codec struct {
	Logger *zap.Logger
}

// New returns a codec that logs block counts at debug level.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{Logger: logger}
}

func (c *Codec) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// BlockSizes returns the plaintext block width, ceil(floor(log2 modulus)/8),
// and the ciphertext block width, ceil(bitlen(modulus)/8), in bytes.
func BlockSizes(modulus *big.Int) (plain, cipher int, err error) {
	if modulus == nil || modulus.Cmp(one) <= 0 {
		return 0, 0, rsaerrors.InvalidArgument("BlockSizes", "modulus must be greater than 1")
	}

	blockBits := modulus.BitLen() - 1
	plain = (blockBits + 7) / 8
	cipher = (modulus.BitLen() + 7) / 8
	if plain == 0 {
		return 0, 0, rsaerrors.InvalidArgument("BlockSizes", "modulus %v is too small to hold a block", modulus)
	}
	return plain, cipher, nil
}

func checkExponent(op string, exponent *big.Int) error {
	if exponent == nil || exponent.Sign() < 0 {
		return rsaerrors.InvalidArgument(op, "exponent must be non-negative")
	}
	return nil
}

// Encrypt raises every plaintext block to exponent modulo modulus.
// A block whose value is not below modulus is rejected with ErrInvalidArgument.
func (c *Codec) Encrypt(data []byte, exponent, modulus *big.Int) ([]byte, error) {
	if err := checkExponent("Encrypt", exponent); err != nil {
		return nil, err
	}
	plainSize, cipherSize, err := BlockSizes(modulus)
	if err != nil {
		return nil, err
	}

	blocks := (len(data) + plainSize - 1) / plainSize
	out := make([]byte, blocks*cipherSize)
	chunk := make([]byte, plainSize)
	m := new(big.Int)

	for i := range blocks {
		clear(chunk)
		copy(chunk, data[i*plainSize:min((i+1)*plainSize, len(data))])

		setLittleEndian(m, chunk)
		if m.Cmp(modulus) >= 0 {
			return nil, rsaerrors.InvalidArgument("Encrypt", "block %d is not below the modulus", i)
		}

		m.Exp(m, exponent, modulus)
		m.FillBytes(out[i*cipherSize : (i+1)*cipherSize])
	}

	c.logger().Debug("encrypted blocks",
		zap.Int("blocks", blocks),
		zap.Int("plainBlockSize", plainSize),
		zap.Int("cipherBlockSize", cipherSize))

	return out, nil
}

// Decrypt reverses Encrypt given the matching exponent. Zero bytes padding
// the final block are removed, so plaintext that ends in zero bytes does not
// round-trip exactly.
func (c *Codec) Decrypt(data []byte, exponent, modulus *big.Int) ([]byte, error) {
	if err := checkExponent("Decrypt", exponent); err != nil {
		return nil, err
	}
	plainSize, cipherSize, err := BlockSizes(modulus)
	if err != nil {
		return nil, err
	}
	if len(data)%cipherSize != 0 {
		return nil, rsaerrors.InvalidArgument("Decrypt", "ciphertext length %d is not a multiple of %d", len(data), cipherSize)
	}

	blocks := len(data) / cipherSize
	out := make([]byte, blocks*plainSize)
	x := new(big.Int)

	for i := range blocks {
		x.SetBytes(data[i*cipherSize : (i+1)*cipherSize])
		if x.Cmp(modulus) >= 0 {
			return nil, rsaerrors.InvalidArgument("Decrypt", "block %d is not below the modulus", i)
		}

		x.Exp(x, exponent, modulus)
		if (x.BitLen()+7)/8 > plainSize {
			return nil, rsaerrors.InvalidArgument("Decrypt", "block %d does not fit the block size; wrong exponent?", i)
		}
		fillLittleEndian(x, out[i*plainSize:(i+1)*plainSize])
	}

	c.logger().Debug("decrypted blocks",
		zap.Int("blocks", blocks),
		zap.Int("plainBlockSize", plainSize),
		zap.Int("cipherBlockSize", cipherSize))

	if blocks > 0 {
		last := out[(blocks-1)*plainSize:]
		trimmed := bytes.TrimRight(last, "\x00")
		out = out[:len(out)-len(last)+len(trimmed)]
	}
	return out, nil
}

// setLittleEndian sets z to the unsigned little-endian value of b.
func setLittleEndian(z *big.Int, b []byte) {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	z.SetBytes(be)
}

// fillLittleEndian writes z into buf as a zero-extended little-endian value.
// z must fit in len(buf) bytes.
func fillLittleEndian(z *big.Int, buf []byte) {
	z.FillBytes(buf)
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
