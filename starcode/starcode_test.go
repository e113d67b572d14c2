package starcode

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankedit/fault"
)

func random_string(r *rand.Rand, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = Alphabet[r.Intn(N)]
	}
	return string(out)
}

func TestAlphabet(t *testing.T) {
	assert.Equal(t, 89, N)
	seen := map[rune]bool{}
	for _, c := range Alphabet {
		assert.False(t, seen[c], "duplicate %q", c)
		seen[c] = true
	}
	assert.True(t, Valid(Key))
	assert.False(t, Valid("abc\"def"))
}

func TestCipherKnown(t *testing.T) {
	// The key encrypts "0"s into itself
	out, err := Encrypt("000000000")
	require.NoError(t, err)
	assert.Equal(t, Key, out)

	plain, err := Decrypt(Key + Key)
	require.NoError(t, err)
	assert.Equal(t, "000000000000000000", plain)
}

func TestCipherInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n += 1 {
		s := random_string(r, r.Intn(80))

		enc, err := Encrypt(s)
		require.NoError(t, err)
		dec, err := Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)

		dec, err = Decrypt(s)
		require.NoError(t, err)
		enc, err = Encrypt(dec)
		require.NoError(t, err)
		assert.Equal(t, s, enc)
	}
}

func TestCipherRejectsForeignCharacters(t *testing.T) {
	for _, s := range []string{"abc\"", "<", "é", "abc&def"} {
		_, err := Encrypt(s)
		assert.ErrorIs(t, err, fault.ErrInvalidCharacter, s)
		_, err = Decrypt(s)
		assert.ErrorIs(t, err, fault.ErrInvalidCharacter, s)
		assert.True(t, fault.IsErrDecode(err))
	}
}

func TestCompressZero(t *testing.T) {
	assert.Equal(t, "", Compress(big.NewInt(0)))

	n, err := Uncompress("")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Sign())
}

func TestCompressDigits(t *testing.T) {
	assert.Equal(t, "1", Compress(big.NewInt(1)))
	assert.Equal(t, "`", Compress(big.NewInt(88)))
	assert.Equal(t, "10", Compress(big.NewInt(89)))
	assert.Equal(t, "``", Compress(big.NewInt(89*89-1)))
}

func TestCompressRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i += 1 {
		n := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), uint(1+r.Intn(400))))
		back, err := Uncompress(Compress(n))
		require.NoError(t, err)
		assert.Equal(t, 0, n.Cmp(back), "%v != %v", n, back)
	}
}

func TestUncompressLeadingZeros(t *testing.T) {
	// Leading zero digits are harmless on the way in, but never produced on the way out
	n, err := Uncompress("0001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Int64())

	_, err = Uncompress("12\"3")
	assert.ErrorIs(t, err, fault.ErrInvalidCharacter)
}

func TestStoreExtractIsAStack(t *testing.T) {
	acc := new(big.Int)
	require.NoError(t, Store(acc, 3, 10))
	require.NoError(t, Store(acc, 7, 100))
	require.NoError(t, Store(acc, 0, 1))

	assert.Equal(t, uint64(0), Extract(acc, 1))
	assert.Equal(t, uint64(7), Extract(acc, 100))
	assert.Equal(t, uint64(3), Extract(acc, 10))
	assert.Equal(t, 0, acc.Sign())
}

func TestStoreBoundary(t *testing.T) {
	acc := new(big.Int)
	assert.NoError(t, Store(acc, 1000, 1000))

	err := Store(acc, 1001, 1000)
	assert.ErrorIs(t, err, fault.ErrValueOutOfRange)
	assert.True(t, fault.IsErrRange(err))
}

func TestPackUnpackSameOrder(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for n := 0; n < 200; n += 1 {
		count := 1 + r.Intn(40)
		values := make([]uint64, count)
		maxima := make([]uint64, count)
		for i := range values {
			maxima[i] = uint64(r.Int63n(100000000))
			values[i] = uint64(r.Int63n(int64(maxima[i]) + 1))
		}

		acc, err := Pack(values, maxima)
		require.NoError(t, err)
		back, err := Unpack(acc, maxima)
		require.NoError(t, err)
		assert.Equal(t, values, back)
	}
}

func TestUnpackLeftover(t *testing.T) {
	acc, err := Pack([]uint64{5, 6}, []uint64{9, 9})
	require.NoError(t, err)

	// one digit too few
	_, err = Unpack(acc, []uint64{9})
	assert.ErrorIs(t, err, fault.ErrSchemaMismatch)
}

func TestPackCountMismatch(t *testing.T) {
	_, err := Pack([]uint64{1}, []uint64{1, 2})
	assert.ErrorIs(t, err, fault.ErrValueCount)
}

func TestEncodeDecode(t *testing.T) {
	blob, err := Encode(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "", blob)

	n := new(big.Int).Exp(big.NewInt(10), big.NewInt(60), nil)
	blob, err = Encode(n)
	require.NoError(t, err)
	back, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(back))
}
