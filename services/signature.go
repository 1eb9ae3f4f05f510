package services

import (
	"fmt"
	"strconv"
)

// attestationFor builds the stand-in signature VABA and ADKG exchange in
// place of a real threshold signature: a string whose trailing decimal run
// is exactly the signer's id, which the recipient can check without any
// actual cryptographic machinery.
func attestationFor(id int) string {
	return fmt.Sprintf("sig-%d", id)
}

// trailingDecimalRun extracts the run of ASCII digits at the end of s and
// parses it as an int. ok is false if s has no trailing digits.
func trailingDecimalRun(s string) (n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, false
	}
	return v, true
}
