package game

import "strings"

// DrawerIndex picks the drawer for a 1-indexed round over an ordered roster
// of playerCount participants: plain round-robin, fixed at game start.
// Returns -1 for an empty roster.
func DrawerIndex(round, playerCount int) int {
	if playerCount <= 0 {
		return -1
	}
	return (round - 1) % playerCount
}

// MatchGuess compares a submitted guess against the secret word. The match is
// case-insensitive and otherwise exact: no trimming, no partial credit.
func MatchGuess(guess, secret string) bool {
	if secret == "" {
		return false
	}
	return strings.ToLower(guess) == strings.ToLower(secret)
}
