package game

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyRoster is fatal to a game instance: a round cannot start without
// players.
var ErrEmptyRoster = errors.New("empty roster")

// Config holds the per-game rules.
type Config struct {
	MaxRounds    int
	RoundSeconds int
	WordChoices  int
}

func DefaultConfig() Config {
	return Config{
		MaxRounds:    10,
		RoundSeconds: 60,
		WordChoices:  3,
	}
}

// Engine is the round/turn state machine for one game instance. It is not
// safe for concurrent use; the caller serializes every mutation (ticks, guess
// submissions, bot callbacks) onto a single control flow, and deferred
// callbacks must compare Generation against the value captured at schedule
// time before calling back in.
//
// The engine performs no I/O: it mutates its own state and leaves chat
// messages, outcomes and results for the caller to read out.
type Engine struct {
	cfg   Config
	words *WordBank

	players []Player
	round   int
	state   State

	secretWord  string
	wordChoices []string
	timeLeft    int

	// generation increments whenever the active round changes identity, so
	// stale timer and bot callbacks can detect they refer to a dead round.
	generation int

	chat       []ChatMessage
	nextChatID int

	lastOutcome *RoundOutcome
	result      *GameResult
}

// New builds an engine over a fixed roster. Roster order determines the
// drawer rotation and is never reshuffled.
func New(cfg Config, words *WordBank, roster []Player) *Engine {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultConfig().MaxRounds
	}
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = DefaultConfig().RoundSeconds
	}
	if cfg.WordChoices <= 0 {
		cfg.WordChoices = DefaultConfig().WordChoices
	}
	players := make([]Player, len(roster))
	copy(players, roster)
	for i := range players {
		players[i].Score = 0
		players[i].IsDrawing = false
	}
	return &Engine{
		cfg:        cfg,
		words:      words,
		players:    players,
		state:      StateIdle,
		nextChatID: 1,
	}
}

// Start begins round 1. The roster must be non-empty.
func (e *Engine) Start() error {
	if len(e.players) == 0 {
		return ErrEmptyRoster
	}
	if e.state != StateIdle {
		return nil
	}
	e.round = 1
	e.startRound()
	return nil
}

func (e *Engine) startRound() {
	e.generation++
	drawerIndex := DrawerIndex(e.round, len(e.players))
	for i := range e.players {
		e.players[i].IsDrawing = i == drawerIndex
	}
	e.secretWord = ""
	e.wordChoices = nil
	e.timeLeft = e.cfg.RoundSeconds
	e.lastOutcome = nil

	e.chat = nil
	e.nextChatID = 1
	e.appendChat(systemSender, fmt.Sprintf("Round %d started. %s is drawing.", e.round, e.players[drawerIndex].Name))

	if e.players[drawerIndex].IsBot {
		// The bot picks its word immediately and the clock runs while it
		// "sketches"; guessers race the timer from the start.
		e.secretWord = e.words.Draw(1)[0]
		e.state = StateBotDrawing
	} else {
		e.wordChoices = e.words.Draw(e.cfg.WordChoices)
		e.state = StateWordSelection
	}
}

// WordChoices returns the words offered to a human drawer, or nil outside
// word selection.
func (e *Engine) WordChoices() []string {
	if e.state != StateWordSelection {
		return nil
	}
	choices := make([]string, len(e.wordChoices))
	copy(choices, e.wordChoices)
	return choices
}

// SelectWord records the drawer's pick and starts the drawing phase. Picks
// outside word selection, or of a word that was not offered, are ignored.
// Returns true when drawing began.
func (e *Engine) SelectWord(word string) bool {
	if e.state != StateWordSelection {
		return false
	}
	offered := false
	for _, choice := range e.wordChoices {
		if choice == word {
			offered = true
			break
		}
	}
	if !offered {
		return false
	}
	e.secretWord = word
	e.wordChoices = nil
	e.state = StatePlayerDrawing
	return true
}

// SubmitGuess records a chat message from guesserID and evaluates it against
// the secret word. Messages outside a drawing state, from unknown senders or
// from the drawer are never winning guesses; late calls after the round ended
// are harmless no-ops.
func (e *Engine) SubmitGuess(guesserID, text string) GuessResult {
	guesser := e.findPlayer(guesserID)
	if guesser == nil {
		return GuessIgnored
	}
	e.appendChat(guesser.Name, text)
	if !e.state.Drawing() || guesser.IsDrawing {
		return GuessIgnored
	}
	if !MatchGuess(text, e.secretWord) {
		return GuessWrong
	}
	e.appendChat(systemSender, fmt.Sprintf("%s guessed the word!", guesser.Name))
	e.endRound(true, guesserID)
	return GuessCorrect
}

// Tick advances the round clock by one second. Outside a drawing state it is
// a no-op, so a caller's ticker may keep firing after the round ended.
func (e *Engine) Tick() {
	if !e.state.Drawing() {
		return
	}
	e.timeLeft--
	if e.timeLeft <= 0 {
		e.timeLeft = 0
		e.endRound(false, "")
	}
}

func (e *Engine) endRound(guessed bool, guesserID string) {
	e.generation++
	guesserPoints, drawerPoints := ScoreRound(guessed, e.timeLeft)

	outcome := &RoundOutcome{
		Round:   e.round,
		Word:    e.secretWord,
		Guessed: guessed,
	}
	for i := range e.players {
		p := &e.players[i]
		if p.IsDrawing {
			p.Score += drawerPoints
			outcome.DrawerID = p.ID
			outcome.DrawerPoints = drawerPoints
		} else if guessed && p.ID == guesserID {
			p.Score += guesserPoints
			outcome.GuesserID = p.ID
			outcome.GuesserPoints = guesserPoints
		}
	}

	if guessed {
		e.appendChat(systemSender, fmt.Sprintf(
			"The word was %q. %s earns %d points, %s earns %d points.",
			outcome.Word, e.playerName(outcome.GuesserID), outcome.GuesserPoints,
			e.playerName(outcome.DrawerID), outcome.DrawerPoints))
	} else {
		e.appendChat(systemSender, fmt.Sprintf(
			"Time is up! Nobody guessed %q. %s earns %d points.",
			outcome.Word, e.playerName(outcome.DrawerID), outcome.DrawerPoints))
	}

	e.lastOutcome = outcome
	e.state = StateEndOfRound
}

// Advance moves past an end-of-round summary: either into the next round or,
// after the final round, into the terminal game-ended state. Calls in any
// other state, including after the game ended, do nothing.
func (e *Engine) Advance() {
	if e.state != StateEndOfRound {
		return
	}
	e.round++
	if e.round > e.cfg.MaxRounds {
		e.finishGame("")
		return
	}
	e.startRound()
}

func (e *Engine) finishGame(deserterID string) {
	e.generation++
	e.state = StateGameEnded
	for i := range e.players {
		e.players[i].IsDrawing = false
	}

	standings := make([]Player, len(e.players))
	copy(standings, e.players)
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	result := &GameResult{DeserterID: deserterID, Standings: standings}
	if len(standings) > 0 {
		result.WinnerID = standings[0].ID
	}
	e.result = result

	if deserterID != "" && result.WinnerID != "" {
		e.appendChat(systemSender, fmt.Sprintf("%s wins: the opponent deserted.", e.playerName(result.WinnerID)))
	} else if result.WinnerID != "" {
		e.appendChat(systemSender, fmt.Sprintf("Game over! %s wins with %d points.", e.playerName(result.WinnerID), standings[0].Score))
	} else {
		e.appendChat(systemSender, "Game over.")
	}
}

// RemovePlayer handles a departure. Removing an absent player is a no-op, so
// duplicated desertion notifications merge cleanly. A departing drawer
// abandons the current round without scoring. When exactly one player is
// left the game ends immediately and the departed player is recorded as a
// deserter rather than a normal loser.
func (e *Engine) RemovePlayer(playerID string) Departure {
	index := -1
	for i := range e.players {
		if e.players[i].ID == playerID {
			index = i
			break
		}
	}
	if index < 0 {
		return Departure{}
	}

	departed := e.players[index]
	e.players = append(e.players[:index], e.players[index+1:]...)
	dep := Departure{Removed: true}

	if e.state == StateGameEnded {
		return dep
	}

	e.appendChat(systemSender, fmt.Sprintf("%s left the game.", departed.Name))

	if departed.IsDrawing && e.state != StateEndOfRound {
		e.generation++
		e.secretWord = ""
		e.wordChoices = nil
		e.lastOutcome = &RoundOutcome{Round: e.round, Abandoned: true}
		e.state = StateEndOfRound
		e.appendChat(systemSender, "The drawer is gone, round abandoned.")
		dep.RoundAbandoned = true
	}

	if len(e.players) == 1 {
		e.finishGame(departed.ID)
		dep.GameOver = true
		dep.WinnerID = e.players[0].ID
		dep.DeserterID = departed.ID
	} else if len(e.players) == 0 {
		e.finishGame(departed.ID)
		dep.GameOver = true
		dep.DeserterID = departed.ID
	}
	return dep
}

func (e *Engine) appendChat(sender, text string) {
	e.chat = append(e.chat, ChatMessage{ID: e.nextChatID, Sender: sender, Text: text})
	e.nextChatID++
}

// AppendSystemMessage adds a system line to the transcript, used by callers
// for announcements the engine does not originate itself.
func (e *Engine) AppendSystemMessage(text string) {
	e.appendChat(systemSender, text)
}

func (e *Engine) findPlayer(id string) *Player {
	for i := range e.players {
		if e.players[i].ID == id {
			return &e.players[i]
		}
	}
	return nil
}

func (e *Engine) playerName(id string) string {
	if p := e.findPlayer(id); p != nil {
		return p.Name
	}
	return id
}

// State accessors. Slices come back as copies; the engine owns its state.

func (e *Engine) State() State       { return e.state }
func (e *Engine) Round() int         { return e.round }
func (e *Engine) MaxRounds() int     { return e.cfg.MaxRounds }
func (e *Engine) TimeLeft() int      { return e.timeLeft }
func (e *Engine) Generation() int    { return e.generation }
func (e *Engine) SecretWord() string { return e.secretWord }

// MaskedWord is the guesser-visible form of the secret word.
func (e *Engine) MaskedWord() string {
	if e.secretWord == "" {
		return ""
	}
	return Mask(e.secretWord)
}

func (e *Engine) Players() []Player {
	players := make([]Player, len(e.players))
	copy(players, e.players)
	return players
}

// Drawer returns the player currently holding the pencil.
func (e *Engine) Drawer() (Player, bool) {
	for i := range e.players {
		if e.players[i].IsDrawing {
			return e.players[i], true
		}
	}
	return Player{}, false
}

// HasBot reports whether a scripted participant is on the roster.
func (e *Engine) HasBot() bool {
	for i := range e.players {
		if e.players[i].IsBot {
			return true
		}
	}
	return false
}

func (e *Engine) Chat() []ChatMessage {
	chat := make([]ChatMessage, len(e.chat))
	copy(chat, e.chat)
	return chat
}

// LastOutcome returns the most recent round outcome, or nil while a round is
// in flight.
func (e *Engine) LastOutcome() *RoundOutcome {
	if e.lastOutcome == nil {
		return nil
	}
	outcome := *e.lastOutcome
	return &outcome
}

// Result returns the final standings once the game ended, nil before.
func (e *Engine) Result() *GameResult {
	if e.result == nil {
		return nil
	}
	result := *e.result
	result.Standings = make([]Player, len(e.result.Standings))
	copy(result.Standings, e.result.Standings)
	return &result
}
