package starcode

// Encrypt shifts every character forward by the key character at the same position.
func Encrypt(s string) (string, error) {
	return shift(s, 1)
}

// Decrypt undoes Encrypt.
func Decrypt(s string) (string, error) {
	return shift(s, -1)
}

func shift(s string, direction int) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i += 1 {
		a, err := digit(s, i)
		if err != nil {
			return "", err
		}
		d := digits[Key[i%len(Key)]]
		out[i] = Alphabet[(a+direction*d+N)%N]
	}
	return string(out), nil
}
