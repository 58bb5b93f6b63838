package digest

import (
	"encoding/hex"
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrOddHexLength is returned when a hex string has an odd number of digits.
	ErrOddHexLength = zerr.New("The given string has an odd length. Hex strings must be of even length.")

	// ErrInvalidHexDigit is returned when a hex string contains a character outside 0-9, a-f, A-F.
	ErrInvalidHexDigit = zerr.New("Invalid hexadecimal digit. Allowed characters: 0-9, a-f, A-F.")
)

// ToHex encodes b as lower-case hexadecimal.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex decodes a hexadecimal string. Digits may be upper or lower case.
func FromHex(s string) ([]byte, error) {
	if len(s)%2 == 1 {
		return nil, zerr.With(ErrOddHexLength, "length", len(s))
	}

	out, err := hex.DecodeString(s)
	var invalid hex.InvalidByteError
	if errors.As(err, &invalid) {
		pos := strings.IndexByte(s, byte(invalid))
		return nil, zerr.With(zerr.With(ErrInvalidHexDigit, "character", string(rune(invalid))), "position", pos)
	}
	if err != nil {
		return nil, zerr.Wrap(err, ErrInvalidHexDigit.Error())
	}
	return out, nil
}
