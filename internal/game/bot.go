package game

import (
	"math/rand"
	"time"
)

// BotTiming describes the scripted opponent used in solo games. The engine
// itself never sleeps; callers schedule timers from these decisions and must
// discard the callback if the round generation moved on before it fired.
type BotTiming struct {
	// DrawDelay is how long the bot pretends to sketch after becoming the
	// drawer. It is not bound by the round clock.
	DrawDelay time.Duration
	// GuessMin/GuessMax bound the single guess attempt the bot makes while
	// the human draws.
	GuessMin time.Duration
	GuessMax time.Duration
	// GuessChance is the probability that the attempt succeeds.
	GuessChance float64
}

func DefaultBotTiming() BotTiming {
	return BotTiming{
		DrawDelay:   5 * time.Second,
		GuessMin:    5 * time.Second,
		GuessMax:    15 * time.Second,
		GuessChance: 0.5,
	}
}

// GuessDelay picks a uniformly random delay in [GuessMin, GuessMax).
func (t BotTiming) GuessDelay(rng *rand.Rand) time.Duration {
	window := t.GuessMax - t.GuessMin
	if window <= 0 {
		return t.GuessMin
	}
	return t.GuessMin + time.Duration(rng.Int63n(int64(window)))
}

// GuessSucceeds rolls the single success check for one attempt.
func (t BotTiming) GuessSucceeds(rng *rand.Rand) bool {
	return rng.Float64() < t.GuessChance
}
