package starcode

import (
	"fmt"
	"math/big"

	"bankedit/fault"
)

// Store appends one mixed-radix digit to acc: acc = acc*(max+1) + value.
func Store(acc *big.Int, value uint64, max uint64) error {
	if value > max {
		return fmt.Errorf("%w: %d > %d", fault.ErrValueOutOfRange, value, max)
	}
	acc.Mul(acc, radix(max))
	acc.Add(acc, new(big.Int).SetUint64(value))
	return nil
}

// Extract removes the most recently stored digit from acc and returns it.
//
// Digits come back in reverse order of storing; nothing in the accumulator
// says which field a digit belongs to, so a wrong max silently shifts every
// value after it.
func Extract(acc *big.Int, max uint64) uint64 {
	value := new(big.Int)
	acc.DivMod(acc, radix(max), value)
	return value.Uint64()
}

func radix(max uint64) *big.Int {
	r := new(big.Int).SetUint64(max)
	return r.Add(r, big.NewInt(1))
}

// Pack stores values in order, so values[0] is the most significant digit.
func Pack(values []uint64, maxima []uint64) (*big.Int, error) {
	if len(values) != len(maxima) {
		return nil, fmt.Errorf("%w: %d values for %d digits", fault.ErrValueCount, len(values), len(maxima))
	}
	acc := new(big.Int)
	for i, v := range values {
		err := Store(acc, v, maxima[i])
		if err != nil {
			return nil, fmt.Errorf("digit %d: %w", i, err)
		}
	}
	return acc, nil
}

// Unpack is the inverse of Pack and returns the values in the order they were packed.
// Anything left over after the last digit means the maxima do not describe acc.
func Unpack(acc *big.Int, maxima []uint64) ([]uint64, error) {
	rest := new(big.Int).Set(acc)
	out := make([]uint64, len(maxima))
	for i := len(maxima) - 1; i >= 0; i -= 1 {
		out[i] = Extract(rest, maxima[i])
	}
	if rest.Sign() != 0 {
		return nil, fmt.Errorf("%w: %v left over after %d digits", fault.ErrSchemaMismatch, rest, len(maxima))
	}
	return out, nil
}
