package game

import "strings"

const maskRune = "_"

// Mask obscures a secret word for guessers: first and last letters stay
// visible, everything between becomes underscores. Words of one or two
// letters are too short to mask usefully and come back unchanged.
func Mask(word string) string {
	runes := []rune(word)
	if len(runes) <= 2 {
		return word
	}
	var b strings.Builder
	b.WriteRune(runes[0])
	b.WriteString(strings.Repeat(maskRune, len(runes)-2))
	b.WriteRune(runes[len(runes)-1])
	return b.String()
}
