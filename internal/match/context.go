// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "fmt"

const ellipsis = "..."

// ExtractContext returns the part of text around the first
// case-insensitive occurrence of term, keeping up to radius characters
// on each side. "..." marks each side where text was cut. An absent or
// empty term yields "" and no error. A negative radius is
// ErrInvalidConfiguration.
func ExtractContext(text, term string, radius int) (string, error) {
	if radius < 0 {
		return "", fmt.Errorf("%w: context radius must not be negative, got %d", ErrInvalidConfiguration, radius)
	}

	needle := lowerRunes([]rune(term))
	runes, offsets := decodeText(text)
	i := indexRunes(lowerRunes(runes), needle, 0)
	if i < 0 {
		return "", nil
	}

	start, end := i-radius, i+len(needle)+radius
	prefix, suffix := "", ""
	if start > 0 {
		prefix = ellipsis
	} else {
		start = 0
	}
	if end < len(runes) {
		suffix = ellipsis
	} else {
		end = len(runes)
	}
	return prefix + text[offsets[start]:offsets[end]] + suffix, nil
}
