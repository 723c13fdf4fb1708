package server

import (
	"log"
	"time"

	"gartic-show/internal/game"
)

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// startSessionTimers launches the 1 Hz round clock for a started game and,
// for persisted multiplayer games, the roster poller that backstops missed
// departure notifications. Both stop when the session's stop channel closes.
func (s *Server) startSessionTimers(sessionID string, solo bool) {
	stop := make(chan struct{})
	s.timersMu.Lock()
	if old, ok := s.timers[sessionID]; ok {
		close(old)
	}
	s.timers[sessionID] = stop
	s.timersMu.Unlock()

	go s.runRoundClock(sessionID, stop)
	if !solo && s.db != nil {
		go s.runRosterPoller(sessionID, stop)
	}
}

func (s *Server) stopSessionTimers(sessionID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if stop, ok := s.timers[sessionID]; ok {
		close(stop)
		delete(s.timers, sessionID)
	}
}

// runRoundClock drives Engine.Tick once per second. Tick is a no-op outside
// drawing states, so the clock may keep ticking across word selection and
// round summaries without corrupting anything.
func (s *Server) runRoundClock(sessionID string, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var wasDrawing, timedOut bool
			var outcome *game.RoundOutcome
			sess, err := s.store.Update(sessionID, func(sess *Session) error {
				if sess.Engine == nil {
					return errGameNotRunning
				}
				wasDrawing = sess.Engine.State().Drawing()
				sess.Engine.Tick()
				timedOut = wasDrawing && sess.Engine.State() == game.StateEndOfRound
				if timedOut {
					outcome = sess.Engine.LastOutcome()
				}
				return nil
			})
			if err != nil {
				return
			}
			if timedOut {
				log.Printf("round timed out lobby_id=%s round=%d", sessionID, outcome.Round)
				s.logPersistErr("event", s.persistEvent(sess, "round_ended", EventPayload{
					LobbyID:      sessionID,
					Round:        outcome.Round,
					Word:         outcome.Word,
					DrawerID:     outcome.DrawerID,
					DrawerPoints: outcome.DrawerPoints,
					Reason:       "timeout",
				}))
			}
			if wasDrawing {
				s.pushGameSnapshot(sessionID)
			}
		}
	}
}

// scheduleBotTurn arms the solo-mode bot for the round that just started.
// Must be called with the store mutex held. The generation captured here is
// re-checked when each timer fires; a round that ended in the meantime
// swallows the callback.
func (s *Server) scheduleBotTurn(sess *Session) {
	if sess.Engine == nil || !sess.Engine.HasBot() {
		return
	}
	timing := s.botTiming()
	generation := sess.Engine.Generation()
	sessionID := sess.ID

	switch sess.Engine.State() {
	case game.StateBotDrawing:
		// The bot sketches for a fixed spell, then taunts the guessers.
		time.AfterFunc(timing.DrawDelay, func() {
			s.fireBotDrawNotice(sessionID, generation)
		})
	case game.StatePlayerDrawing:
		// One guess attempt per round, decided up front.
		delay := timing.GuessDelay(sess.rng)
		succeeds := timing.GuessSucceeds(sess.rng)
		time.AfterFunc(delay, func() {
			s.fireBotGuess(sessionID, generation, succeeds)
		})
	}
}

func (s *Server) fireBotDrawNotice(sessionID string, generation int) {
	_, err := s.store.Update(sessionID, func(sess *Session) error {
		if sess.Engine == nil || sess.Engine.Generation() != generation {
			return errGameNotRunning
		}
		if sess.Engine.State() != game.StateBotDrawing {
			return errGameNotRunning
		}
		sess.Engine.AppendSystemMessage("Bot finished sketching. Guess the word!")
		return nil
	})
	if err != nil {
		return
	}
	s.pushGameSnapshot(sessionID)
}

func (s *Server) fireBotGuess(sessionID string, generation int, succeeds bool) {
	var guessed bool
	var round int
	_, err := s.store.Update(sessionID, func(sess *Session) error {
		if sess.Engine == nil || sess.Engine.Generation() != generation {
			return errGameNotRunning
		}
		if !succeeds {
			// Failed attempt: the round keeps running to a human guess or
			// the clock.
			return nil
		}
		bot, ok := findBot(sess.Engine)
		if !ok {
			return nil
		}
		round = sess.Engine.Round()
		guessed = sess.Engine.SubmitGuess(bot.ID, sess.Engine.SecretWord()) == game.GuessCorrect
		return nil
	})
	if err != nil {
		return
	}
	if guessed {
		log.Printf("bot guessed the word lobby_id=%s round=%d", sessionID, round)
		s.pushGameSnapshot(sessionID)
	}
}

func findBot(engine *game.Engine) (game.Player, bool) {
	for _, p := range engine.Players() {
		if p.IsBot {
			return p, true
		}
	}
	return game.Player{}, false
}

// runRosterPoller periodically re-reads the lobby's roster rows and merges
// the result into the engine, removing players whose rows are gone. This is
// the polling fallback for the delete notifications the leave handler
// produces; both paths funnel into the same idempotent removal.
func (s *Server) runRosterPoller(sessionID string, stop <-chan struct{}) {
	interval := secondsToDuration(s.cfg.RosterPollSeconds)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ids, err := s.fetchRosterUserIDs(sessionID)
			if err != nil {
				log.Printf("roster poll failed lobby_id=%s error=%v", sessionID, err)
				continue
			}
			present := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				present[id] = struct{}{}
			}
			var departed []string
			_, err = s.store.Update(sessionID, func(sess *Session) error {
				if sess.Engine == nil {
					return errGameNotRunning
				}
				for _, p := range sess.Engine.Players() {
					if p.IsBot {
						continue
					}
					if _, ok := present[p.ID]; !ok {
						departed = append(departed, p.ID)
					}
				}
				return nil
			})
			if err != nil {
				return
			}
			for _, userID := range departed {
				log.Printf("roster poll detected departure lobby_id=%s user_id=%s", sessionID, userID)
				s.removeFromGame(sessionID, userID)
			}
		}
	}
}
