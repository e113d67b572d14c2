package starcode

import (
	"math/big"
)

var base = big.NewInt(int64(N))

// Compress writes n as a base-N numeral, most significant digit first.
// Zero is the empty string, not "0".
func Compress(n *big.Int) string {
	if n.Sign() < 0 {
		panic("starcode: cannot compress a negative number")
	}

	rest := new(big.Int).Set(n)
	rem := new(big.Int)
	out := []byte{}
	for rest.Sign() != 0 {
		rest.DivMod(rest, base, rem)
		out = append(out, Alphabet[rem.Int64()])
	}

	// digits came out least significant first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Uncompress parses a base-N numeral.  The empty string is zero.
func Uncompress(s string) (*big.Int, error) {
	out := new(big.Int)
	d := new(big.Int)
	for i := 0; i < len(s); i += 1 {
		v, err := digit(s, i)
		if err != nil {
			return nil, err
		}
		out.Mul(out, base)
		out.Add(out, d.SetInt64(int64(v)))
	}
	return out, nil
}

// Encode compresses then encrypts, giving the persisted form of an accumulator.
func Encode(n *big.Int) (string, error) {
	return Encrypt(Compress(n))
}

// Decode decrypts then uncompresses a persisted blob.
func Decode(blob string) (*big.Int, error) {
	plain, err := Decrypt(blob)
	if err != nil {
		return nil, err
	}
	return Uncompress(plain)
}
