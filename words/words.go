// Package words converts monetary amounts into their English word form,
// e.g. "106" -> "one hundred six".
package words

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/divan/num2words"
)

// FromAmount converts the numeric string s into English words. Fractional
// digits are truncated toward zero, matching how the invoice form derives
// the word field from the rounded total.
func FromAmount(s string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("amount %q is not numeric", s)
	}
	return FromFloat(f), nil
}

// FromFloat converts the integer part of f into English words.
func FromFloat(f float64) string {
	n := int(f) // truncates toward zero
	if n < 0 {
		return "minus " + num2words.Convert(-n)
	}
	return num2words.Convert(n)
}
