package domain

import (
	"math"
	"math/bits"

	"github.com/holiman/uint256"
)

// BpsDenominator is the fixed-point denominator for basis-point math.
// 10000 bps = 100%.
const BpsDenominator = 10_000

// SafeAdd returns a+b or ErrMathOverflow.
func SafeAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrMathOverflow
	}
	return a + b, nil
}

// SafeSub returns a-b or ErrMathUnderflow.
func SafeSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrMathUnderflow
	}
	return a - b, nil
}

// SafeMul returns a*b or ErrMathOverflow.
func SafeMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

// SafeDiv returns a/b; division by zero is reported as ErrMathOverflow,
// matching the generic overflow treatment of the other checked operations.
func SafeDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrMathOverflow
	}
	return a / b, nil
}

// SafeAddU32 returns a+b or ErrMathOverflow for 32-bit counters.
func SafeAddU32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, ErrMathOverflow
	}
	return a + b, nil
}

// Percentage computes amount*bps/10000, truncating toward zero. The
// multiplication runs in 256-bit space so the intermediate product cannot
// wrap for any uint64 amount.
func Percentage(amount uint64, bps uint16) (uint64, error) {
	p := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(uint64(bps)))
	p.Div(p, uint256.NewInt(BpsDenominator))
	if !p.IsUint64() {
		return 0, ErrMathOverflow
	}
	return p.Uint64(), nil
}

// PercentageRounded is Percentage with round-half-up at basis-point
// granularity: (amount*bps + 5000) / 10000.
func PercentageRounded(amount uint64, bps uint16) (uint64, error) {
	p := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(uint64(bps)))
	p.Add(p, uint256.NewInt(BpsDenominator/2))
	p.Div(p, uint256.NewInt(BpsDenominator))
	if !p.IsUint64() {
		return 0, ErrMathOverflow
	}
	return p.Uint64(), nil
}

// PriceWithMarkup computes amount*(10000+bps)/10000, the notional price
// after applying a bps markup. Used for resale price caps and for the
// agent money-saved metric.
func PriceWithMarkup(amount uint64, bps uint16) (uint64, error) {
	p := new(uint256.Int).Mul(
		uint256.NewInt(amount),
		uint256.NewInt(BpsDenominator+uint64(bps)),
	)
	p.Div(p, uint256.NewInt(BpsDenominator))
	if !p.IsUint64() {
		return 0, ErrMathOverflow
	}
	return p.Uint64(), nil
}

// ValidateBps rejects basis-point values above 100%.
func ValidateBps(bps uint16) error {
	if bps > BpsDenominator {
		return ErrInvalidBps
	}
	return nil
}
