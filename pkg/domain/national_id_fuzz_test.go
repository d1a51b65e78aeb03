//go:build go1.18

package domain

import (
	"testing"
)

// FuzzIsValidNationalID checks that validation never panics and that any
// accepted input is thirteen ASCII digits whose last digit is the checksum.
func FuzzIsValidNationalID(f *testing.F) {
	f.Add("")
	f.Add("1101001535259")
	f.Add("1101001535250")
	f.Add("0000000000001")
	f.Add("１１０１００１５３５２５９")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		if !IsValidNationalID(input) {
			return
		}
		if len(input) != NationalIDLength {
			t.Fatalf("accepted input of length %d", len(input))
		}
		digit, ok := ChecksumDigit(input[:NationalIDLength-1])
		if !ok {
			t.Fatalf("accepted input with non-digit prefix %q", input)
		}
		if int(input[NationalIDLength-1]-'0') != digit {
			t.Fatalf("accepted input %q with check digit mismatch", input)
		}
		if _, err := ParseNationalID(input); err != nil {
			t.Fatalf("ParseNationalID rejected valid input %q: %v", input, err)
		}
	})
}
