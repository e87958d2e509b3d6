package textbookrsa

import "math/big"

// probeMessage is the value pushed through a key pair by ValidateKeyPair.
var probeMessage = big.NewInt(2)

// KeyPair is a generated textbook RSA key.
// WARNING: PrivateExponent is secret key material - handle securely.
type KeyPair struct {
	// PublicExponent is e.
	PublicExponent *big.Int
	// PrivateExponent is d, the inverse of e modulo the totient.
	PrivateExponent *big.Int
	// Modulus is n = p*q.
	Modulus *big.Int
	// Bits is the bit size requested for each prime.
	Bits int
}

// Clone returns a deep copy of k.
func (k *KeyPair) Clone() *KeyPair {
	if k == nil {
		return nil
	}
	return &KeyPair{
		PublicExponent:  cloneInt(k.PublicExponent),
		PrivateExponent: cloneInt(k.PrivateExponent),
		Modulus:         cloneInt(k.Modulus),
		Bits:            k.Bits,
	}
}

// ValidateKeyPair reports whether kp is structurally sound and its exponents
// invert each other for a probe message.
func ValidateKeyPair(kp *KeyPair) bool {
	if kp == nil {
		return false
	}
	if kp.PublicExponent == nil || kp.PrivateExponent == nil || kp.Modulus == nil {
		return false
	}
	if kp.PublicExponent.Sign() <= 0 || kp.PrivateExponent.Sign() <= 0 {
		return false
	}
	if kp.Modulus.Cmp(probeMessage) <= 0 {
		return false
	}

	c := new(big.Int).Exp(probeMessage, kp.PublicExponent, kp.Modulus)
	m := c.Exp(c, kp.PrivateExponent, kp.Modulus)
	return m.Cmp(probeMessage) == 0
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
