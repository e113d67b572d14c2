// Package starcode implements the text encoding used by bank values:
// a repeating-key substitution cipher, a base-89 numeral codec and
// mixed-radix packing of bounded integers, all over the same alphabet.
package starcode

import (
	"fmt"

	"bankedit/fault"
)

// The order of the alphabet defines digit values; it must never change.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ!$%/()=?,.-;:_^#+* @{[]}|~`"

// Key is applied cyclically by character position.
const Key = "WalkerKey"

// N is both the cipher modulus and the numeral base.
const N = len(Alphabet)

// digits maps a byte to its alphabet position, -1 if it is not in the alphabet
var digits = func() [256]int {
	var out [256]int
	for i := range out {
		out[i] = -1
	}
	for i := 0; i < N; i += 1 {
		out[Alphabet[i]] = i
	}
	return out
}()

// digit looks up s[i], reporting the position of anything outside the alphabet.
func digit(s string, i int) (int, error) {
	d := digits[s[i]]
	if d < 0 {
		return 0, fmt.Errorf("%w: %q at position %d", fault.ErrInvalidCharacter, s[i], i)
	}
	return d, nil
}

// Valid reports whether every character of s is in the alphabet.
func Valid(s string) bool {
	for i := 0; i < len(s); i += 1 {
		if digits[s[i]] < 0 {
			return false
		}
	}
	return true
}
