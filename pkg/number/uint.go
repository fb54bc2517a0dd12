package number

import (
	"github.com/holiman/uint256"
)

// ConfigScale fractions in config are scaled by 1e4
const ConfigScale = 10_000

var (
	// MaxUint the use-everything sentinel
	MaxUint = new(uint256.Int).SetAllOne()
	// MaxSaneAmount 2^112 - 1
	MaxSaneAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 112), uint256.NewInt(1))
	// MaxSaneDebtAmount 2^144 - 1, in owed units
	MaxSaneDebtAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 144), uint256.NewInt(1))

	// Wad 1e18
	Wad = uint256.NewInt(1_000_000_000_000_000_000)
	// Ray 1e27
	Ray = new(uint256.Int).Mul(Wad, uint256.NewInt(1_000_000_000))
)

// Zero new zero
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// Int new uint256 from v
func Int(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// MustParse parse a decimal integer string, panics when malformed
func MustParse(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

// Parse parse a decimal integer string, "max" is the MaxUint sentinel
func Parse(s string) (*uint256.Int, error) {
	if s == "max" {
		return MaxUint.Clone(), nil
	}

	return uint256.FromDecimal(s)
}

// IsMax check the MaxUint sentinel
func IsMax(x *uint256.Int) bool {
	return x != nil && x.Eq(MaxUint)
}

// Min smaller of a and b
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}

	return b.Clone()
}

// Add a + b, ok false on overflow
func Add(a, b *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	return z, !overflow
}

// Sub a - b, saturating at zero
func Sub(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int)
	}

	return new(uint256.Int).Sub(a, b)
}

// MulDiv floor(x * y / d) with a 512 bit intermediate, ok false when d is zero or the result overflows
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, bool) {
	if d.IsZero() {
		return new(uint256.Int), false
	}

	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	return z, !overflow
}

// MulDivUp ceil(x * y / d)
func MulDivUp(x, y, d *uint256.Int) (*uint256.Int, bool) {
	z, ok := MulDiv(x, y, d)
	if !ok {
		return z, false
	}

	if !new(uint256.Int).MulMod(x, y, d).IsZero() {
		_, overflow := z.AddOverflow(z, uint256.NewInt(1))
		return z, !overflow
	}

	return z, true
}

// RPow x^n in fixed point with the given base, rounding half up at each step
func RPow(x *uint256.Int, n uint64, base *uint256.Int) (*uint256.Int, bool) {
	if x.IsZero() {
		if n == 0 {
			return base.Clone(), true
		}

		return new(uint256.Int), true
	}

	z := base.Clone()
	if n%2 == 1 {
		z = x.Clone()
	}

	half := new(uint256.Int).Rsh(base, 1)
	x = x.Clone()
	for n /= 2; n > 0; n /= 2 {
		xx, overflow := new(uint256.Int).MulOverflow(x, x)
		if overflow {
			return nil, false
		}

		if _, overflow = xx.AddOverflow(xx, half); overflow {
			return nil, false
		}

		x.Div(xx, base)
		if n%2 == 1 {
			zx, overflow := new(uint256.Int).MulOverflow(z, x)
			if overflow {
				return nil, false
			}

			if _, overflow = zx.AddOverflow(zx, half); overflow {
				return nil, false
			}

			z.Div(zx, base)
		}
	}

	return z, true
}
