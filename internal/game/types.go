package game

// Player is a participant in one game instance. The engine is the only
// writer of Score and IsDrawing.
type Player struct {
	ID        string
	Name      string
	Score     int
	IsDrawing bool
	IsBot     bool
}

// ChatMessage is one entry of the per-round transcript. IDs are monotonic
// within a game.
type ChatMessage struct {
	ID     int    `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

const systemSender = "System"

// RoundOutcome describes how the most recent round ended and which point
// deltas were applied.
type RoundOutcome struct {
	Round         int
	Word          string
	Guessed       bool
	GuesserID     string
	GuesserPoints int
	DrawerID      string
	DrawerPoints  int
	Abandoned     bool
}

// GameResult is available once the engine reaches StateGameEnded.
// DeserterID is set only when the game ended because a player left.
type GameResult struct {
	WinnerID   string
	DeserterID string
	Standings  []Player
}

// Departure reports the effect of removing a player from the roster.
type Departure struct {
	Removed        bool
	RoundAbandoned bool
	GameOver       bool
	WinnerID       string
	DeserterID     string
}

// GuessResult classifies a submitted chat message.
type GuessResult int

const (
	// GuessIgnored: the message was not evaluated as a guess (wrong state,
	// unknown sender, or the drawer talking).
	GuessIgnored GuessResult = iota
	GuessWrong
	GuessCorrect
)
