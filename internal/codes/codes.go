// ABOUTME: Identification code syntax: validation and canonicalization
// ABOUTME: Codes are four hyphen-separated groups of four hex digits

package codes

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBadFormat is returned when a string is not a well-formed identification code.
var ErrBadFormat = errors.New("malformed identification code")

// Placeholder is the format shown to users in corrective messages.
const Placeholder = "XXXX-XXXX-XXXX-XXXX"

// pattern matches four groups of four hex digits separated by hyphens.
// Letters are accepted in either case; Normalize canonicalizes to upper.
var pattern = regexp.MustCompile(`^[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}$`)

// Valid reports whether s is a well-formed identification code.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Normalize validates s and returns its canonical uppercase form.
// Returns ErrBadFormat if s deviates in length, grouping, or alphabet.
func Normalize(s string) (string, error) {
	if !pattern.MatchString(s) {
		return "", ErrBadFormat
	}
	return strings.ToUpper(s), nil
}
