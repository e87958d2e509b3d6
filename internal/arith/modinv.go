// Package arith implements the number-theoretic helpers used by key
// generation: the extended Euclidean algorithm and modular inversion.
package arith

import (
	"math/big"

	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x, y
// such that a*x + b*y = g. a and b must be non-negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(q, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(q, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}

	return oldR, oldS, oldT
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b)).Cmp(one) == 0
}

// ModularInverse returns the unique x in [0, n) with a*x ≡ 1 (mod n).
// It fails with ErrNotInvertible when gcd(a, n) != 1.
func ModularInverse(a, n *big.Int) (*big.Int, error) {
	if a == nil || n == nil || n.Cmp(one) < 0 {
		return nil, rsaerrors.InvalidArgument("ModularInverse", "modulus must be at least 1")
	}
	if n.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	reduced := new(big.Int).Mod(a, n)
	g, x, _ := ExtendedGCD(reduced, n)
	if g.Cmp(one) != 0 {
		return nil, rsaerrors.ErrNotInvertible
	}

	x.Mod(x, n)
	if x.Cmp(zero) < 0 {
		x.Add(x, n)
	}
	return x, nil
}
