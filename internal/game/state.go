package game

// State is the authoritative phase of a single game instance. Exactly one
// value is current at any time; only the engine changes it.
type State int

const (
	StateIdle State = iota
	StateWordSelection
	StatePlayerDrawing
	StateBotDrawing
	StateEndOfRound
	StateGameEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWordSelection:
		return "word-selection"
	case StatePlayerDrawing:
		return "player-drawing"
	case StateBotDrawing:
		return "bot-drawing"
	case StateEndOfRound:
		return "end-of-round"
	case StateGameEnded:
		return "game-ended"
	default:
		return "unknown"
	}
}

// Drawing reports whether the round clock is live in this state.
func (s State) Drawing() bool {
	return s == StatePlayerDrawing || s == StateBotDrawing
}
