// Package u256x provides saturating arithmetic helpers over uint256.Int.
//
// The fee formulas in internal/l2fee must never panic on adversarial oracle
// values, so every multiplication and addition in that path goes through
// here instead of the raw overflow-checked methods on uint256.Int.
package u256x

import "github.com/holiman/uint256"

var maxUint256 = uint256.MustFromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

// Max returns a fresh copy of 2^256-1.
func Max() *uint256.Int {
	return new(uint256.Int).Set(maxUint256)
}

// SaturatingMul returns x*y, clamped to 2^256-1 on overflow instead of
// wrapping.
func SaturatingMul(x, y *uint256.Int) *uint256.Int {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return Max()
	}
	return z
}

// SaturatingAdd returns x+y, clamped to 2^256-1 on overflow instead of
// wrapping.
func SaturatingAdd(x, y *uint256.Int) *uint256.Int {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return Max()
	}
	return z
}
