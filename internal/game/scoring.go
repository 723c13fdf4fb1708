package game

// Scoring constants. Points are only ever added, never taken away.
const (
	minGuessPoints     = 10
	pointsPerSecond    = 2
	drawerGuessedBonus = 5
	drawerTimeoutBonus = 10
)

// ScoreRound computes the point deltas for one finished round. When the word
// was guessed, the guesser is rewarded for remaining time and the drawer gets
// a small bonus for drawing something guessable. When the clock ran out only
// the drawer scores.
func ScoreRound(guessed bool, timeLeft int) (guesserPoints, drawerPoints int) {
	if guessed {
		guesserPoints = timeLeft * pointsPerSecond
		if guesserPoints < minGuessPoints {
			guesserPoints = minGuessPoints
		}
		return guesserPoints, drawerGuessedBonus
	}
	return 0, drawerTimeoutBonus
}
