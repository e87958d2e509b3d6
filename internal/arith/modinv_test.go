package arith

import (
	"errors"
	"math/big"
	"testing"

	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("invalid integer literal %q", s)
	}
	return v
}

func TestExtendedGCD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b int64
		g    int64
	}{
		{240, 46, 2},
		{46, 240, 2},
		{17, 3120, 1},
		{0, 5, 5},
		{5, 0, 5},
		{1, 1, 1},
		{270, 192, 6},
	}

	for _, tt := range tests {
		a, b := big.NewInt(tt.a), big.NewInt(tt.b)
		g, x, y := ExtendedGCD(a, b)

		if g.Int64() != tt.g {
			t.Errorf("ExtendedGCD(%d, %d) g = %v, want %d", tt.a, tt.b, g, tt.g)
		}

		// a*x + b*y == g
		lhs := new(big.Int).Mul(a, x)
		lhs.Add(lhs, new(big.Int).Mul(b, y))
		if lhs.Cmp(g) != 0 {
			t.Errorf("ExtendedGCD(%d, %d): %d*%v + %d*%v = %v, want %v", tt.a, tt.b, tt.a, x, tt.b, y, lhs, g)
		}
	}
}

func TestModularInverse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, n string
		want string
	}{
		{"textbook", "17", "3120", "2753"},
		{"small", "3", "11", "4"},
		{"one", "1", "7", "1"},
		{"reduces input", "20", "7", "6"},
		{"negative input", "-3", "11", "7"},
		{"modulus one", "5", "1", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, n := mustInt(t, tt.a), mustInt(t, tt.n)
			inv, err := ModularInverse(a, n)
			if err != nil {
				t.Fatalf("ModularInverse() error = %v", err)
			}

			if tt.want != "" && inv.Cmp(mustInt(t, tt.want)) != 0 {
				t.Errorf("ModularInverse(%s, %s) = %v, want %s", tt.a, tt.n, inv, tt.want)
			}

			if inv.Sign() < 0 || inv.Cmp(n) >= 0 {
				t.Errorf("ModularInverse() = %v, outside [0, %v)", inv, n)
			}

			check := new(big.Int).Mul(a, inv)
			check.Mod(check, n)
			if n.Cmp(big.NewInt(1)) > 0 && check.Cmp(big.NewInt(1)) != 0 {
				t.Errorf("(a * inverse) mod n = %v, want 1", check)
			}
		})
	}
}

func TestModularInverse_MatchesStdlib(t *testing.T) {
	t.Parallel()
	n := mustInt(t, "340282366920938463463374607431768211297") // prime
	for _, s := range []string{"2", "3", "65537", "123456789012345678901234567890"} {
		a := mustInt(t, s)
		got, err := ModularInverse(a, n)
		if err != nil {
			t.Fatalf("ModularInverse(%s) error = %v", s, err)
		}
		want := new(big.Int).ModInverse(a, n)
		if got.Cmp(want) != 0 {
			t.Errorf("ModularInverse(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestModularInverse_NotInvertible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, n int64
	}{
		{"shared factor", 6, 9},
		{"even pair", 4, 8},
		{"zero", 0, 7},
		{"multiple of modulus", 14, 7},
		{"rsa exponent 3 with totient divisible by 3", 3, 3120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ModularInverse(big.NewInt(tt.a), big.NewInt(tt.n))
			if !errors.Is(err, rsaerrors.ErrNotInvertible) {
				t.Errorf("expected ErrNotInvertible, got %v", err)
			}
		})
	}
}

func TestModularInverse_InvalidModulus(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, -7} {
		_, err := ModularInverse(big.NewInt(3), big.NewInt(n))
		if !errors.Is(err, rsaerrors.ErrInvalidArgument) {
			t.Errorf("ModularInverse(3, %d) expected ErrInvalidArgument, got %v", n, err)
		}
	}
}

func TestCoprime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b int64
		want bool
	}{
		{17, 3120, true},
		{6, 9, false},
		{1, 0, true},
		{0, 0, false},
		{35, 64, true},
	}

	for _, tt := range tests {
		if got := Coprime(big.NewInt(tt.a), big.NewInt(tt.b)); got != tt.want {
			t.Errorf("Coprime(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func BenchmarkModularInverse(b *testing.B) {
	a := big.NewInt(65537)
	n, _ := new(big.Int).SetString("340282366920938463463374607431768211297", 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ModularInverse(a, n)
	}
}
