package domain

import (
	"strings"

	dErrors "shareholder/pkg/domain-errors"
)

// NationalIDLength is the number of digits in a national identity number,
// including the trailing check digit.
const NationalIDLength = 13

// NationalID is a 13-digit national identity number whose check digit has
// been verified. The zero value is not a valid ID.
type NationalID string

// ParseNationalID trims surrounding whitespace and validates the result with
// IsValidNationalID. Interior whitespace or separators are rejected.
func ParseNationalID(s string) (NationalID, error) {
	s = strings.TrimSpace(s)
	if !IsValidNationalID(s) {
		return "", dErrors.New(dErrors.CodeInvalidNationalID, "national_id must be 13 digits with a valid check digit")
	}
	return NationalID(s), nil
}

// String returns the digits of the ID.
func (n NationalID) String() string {
	return string(n)
}

// IsNil reports whether the ID is empty.
func (n NationalID) IsNil() bool {
	return n == ""
}

// IsValidNationalID reports whether candidate is exactly 13 ASCII digits and
// its last digit equals the checksum of the first twelve.
//
// The checksum weights the first twelve digits 13 down to 2, takes the sum
// modulo 11, and maps it to a digit with (11 - r) % 10. Leading zeros are
// significant. Malformed input yields false, never a panic.
func IsValidNationalID(candidate string) bool {
	if len(candidate) != NationalIDLength {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return false
		}
	}
	expected, _ := ChecksumDigit(candidate[:NationalIDLength-1])
	return expected == int(candidate[NationalIDLength-1]-'0')
}

// ChecksumDigit computes the check digit for the first twelve digits of a
// national ID. It returns false when first12 is not exactly twelve ASCII
// digits.
func ChecksumDigit(first12 string) (int, bool) {
	if len(first12) != NationalIDLength-1 {
		return 0, false
	}
	sum := 0
	for i := 0; i < len(first12); i++ {
		c := first12[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		sum += int(c-'0') * (NationalIDLength - i)
	}
	return (11 - sum%11) % 10, true
}
