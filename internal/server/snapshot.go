package server

import "gartic-show/internal/game"

// sessionSnapshot builds the presentation payload for one viewer. The secret
// word is only included in full for the drawer (and for everyone once the
// round is over); other participants get the masked form. Must be called
// with the store mutex held (inside Store.View or Store.Update).
func sessionSnapshot(sess *Session, viewerID string) map[string]any {
	snapshot := map[string]any{
		"lobby_id":  sess.ID,
		"join_code": sess.JoinCode,
		"name":      sess.Name,
		"status":    sess.Status,
		"solo":      sess.Solo,
	}

	if sess.Engine == nil {
		roster := make([]map[string]any, 0, len(sess.Roster))
		for _, entry := range sess.Roster {
			roster = append(roster, map[string]any{
				"user_id":  entry.UserID,
				"name":     entry.Name,
				"is_ready": entry.IsReady,
				"creator":  entry.UserID == sess.CreatorID,
			})
		}
		snapshot["roster"] = roster
		return snapshot
	}

	engine := sess.Engine
	snapshot["state"] = engine.State().String()
	snapshot["round"] = engine.Round()
	snapshot["max_rounds"] = engine.MaxRounds()
	snapshot["time_left"] = engine.TimeLeft()
	snapshot["word"] = visibleWord(engine, viewerID)
	snapshot["chat"] = engine.Chat()

	players := make([]map[string]any, 0, len(engine.Players()))
	for _, p := range engine.Players() {
		players = append(players, map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"score":      p.Score,
			"is_drawing": p.IsDrawing,
			"is_bot":     p.IsBot,
		})
	}
	snapshot["players"] = players

	if engine.State() == game.StateWordSelection {
		if drawer, ok := engine.Drawer(); ok && drawer.ID == viewerID {
			snapshot["word_choices"] = engine.WordChoices()
		}
	}
	if outcome := engine.LastOutcome(); outcome != nil {
		snapshot["outcome"] = map[string]any{
			"round":          outcome.Round,
			"word":           outcome.Word,
			"guessed":        outcome.Guessed,
			"guesser_id":     outcome.GuesserID,
			"guesser_points": outcome.GuesserPoints,
			"drawer_id":      outcome.DrawerID,
			"drawer_points":  outcome.DrawerPoints,
			"abandoned":      outcome.Abandoned,
		}
	}
	if result := engine.Result(); result != nil {
		standings := make([]map[string]any, 0, len(result.Standings))
		for _, p := range result.Standings {
			standings = append(standings, map[string]any{
				"id":    p.ID,
				"name":  p.Name,
				"score": p.Score,
			})
		}
		snapshot["result"] = map[string]any{
			"winner_id":   result.WinnerID,
			"deserter_id": result.DeserterID,
			"standings":   standings,
		}
	}
	return snapshot
}

// visibleWord decides what rendering of the secret word a viewer may see.
func visibleWord(engine *game.Engine, viewerID string) string {
	switch engine.State() {
	case game.StateEndOfRound, game.StateGameEnded:
		// Revealed once the round is decided.
		return engine.SecretWord()
	case game.StatePlayerDrawing, game.StateBotDrawing:
		if drawer, ok := engine.Drawer(); ok && drawer.ID == viewerID {
			return engine.SecretWord()
		}
		return engine.MaskedWord()
	default:
		return ""
	}
}
