package u256x

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestSaturatingMulClampsOnOverflow(t *testing.T) {
	x := Max()
	got := SaturatingMul(x, uint256.NewInt(2))
	if got.Cmp(Max()) != 0 {
		t.Fatalf("expected saturated max, got %s", got.Dec())
	}
}

func TestSaturatingMulNoOverflow(t *testing.T) {
	got := SaturatingMul(uint256.NewInt(6), uint256.NewInt(7))
	want := uint256.NewInt(42)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got.Dec(), want.Dec())
	}
}

func TestSaturatingAddClampsOnOverflow(t *testing.T) {
	got := SaturatingAdd(Max(), uint256.NewInt(1))
	if got.Cmp(Max()) != 0 {
		t.Fatalf("expected saturated max, got %s", got.Dec())
	}
}

func TestSaturatingAddNoOverflow(t *testing.T) {
	got := SaturatingAdd(uint256.NewInt(40), uint256.NewInt(2))
	want := uint256.NewInt(42)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got.Dec(), want.Dec())
	}
}
