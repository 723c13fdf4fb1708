package server

import (
	"net/http"
	"strings"
	"testing"

	"gartic-show/internal/config"
	"gartic-show/internal/game"
)

func TestLobbyLifecycle(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	lobbyID := createLobby(t, ts, "ada", "Ada")

	resp := doRequest(t, ts, http.MethodGet, "/api/lobbies", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	list := decodeBody(t, resp)["lobbies"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected one waiting lobby, got %d", len(list))
	}

	joinLobby(t, ts, lobbyID, "ben", "Ben")

	resp = doRequest(t, ts, http.MethodGet, "/api/lobbies/"+lobbyID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	roster := snapshot["roster"].([]any)
	if len(roster) != 2 {
		t.Fatalf("expected two roster entries, got %d", len(roster))
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/ready", map[string]any{
		"user_id": "ben",
		"ready":   true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/leave", map[string]string{
		"user_id": "ben",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/leave", map[string]string{
		"user_id": "ada",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	// Last player out deletes the lobby.
	resp = doRequest(t, ts, http.MethodGet, "/api/lobbies/"+lobbyID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestStartGameGuards(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	lobbyID := createLobby(t, ts, "ada", "Ada")

	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/start", map[string]string{
		"user_id": "ada",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for lone player, got %d", http.StatusConflict, resp.StatusCode)
	}

	joinLobby(t, ts, lobbyID, "ben", "Ben")
	resp = doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/start", map[string]string{
		"user_id": "ben",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for non-creator, got %d", http.StatusForbidden, resp.StatusCode)
	}

	startGame(t, ts, lobbyID, "ada")

	resp = doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/start", map[string]string{
		"user_id": "ada",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for double start, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/join", map[string]string{
		"user_id": "cam",
		"name":    "Cam",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for late join, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestMultiplayerRoundFlow(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	lobbyID := createLobby(t, ts, "ada", "Ada")
	joinLobby(t, ts, lobbyID, "ben", "Ben")
	startGame(t, ts, lobbyID, "ada")
	srv.stopSessionTimers(lobbyID)

	state := fetchState(t, ts, lobbyID, "ben")
	if state["state"] != "word-selection" {
		t.Fatalf("expected word-selection, got %v", state["state"])
	}

	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+lobbyID+"/words?user_id=ben", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for non-drawer, got %d", http.StatusForbidden, resp.StatusCode)
	}

	words := fetchWordChoices(t, ts, lobbyID, "ada")
	if len(words) != 3 {
		t.Fatalf("expected three word choices, got %d", len(words))
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/word", map[string]string{
		"user_id": "ada",
		"word":    "nope-not-offered",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for unoffered word, got %d", http.StatusConflict, resp.StatusCode)
	}

	secret := words[0]
	selectWord(t, ts, lobbyID, "ada", secret)

	drawerView := fetchState(t, ts, lobbyID, "ada")
	if drawerView["state"] != "player-drawing" {
		t.Fatalf("expected player-drawing, got %v", drawerView["state"])
	}
	if drawerView["word"] != secret {
		t.Fatalf("drawer should see the full word, got %v", drawerView["word"])
	}
	guesserView := fetchState(t, ts, lobbyID, "ben")
	if guesserView["word"] == secret || !strings.Contains(guesserView["word"].(string), "_") {
		t.Fatalf("guesser should see the masked word, got %v", guesserView["word"])
	}

	if result := submitGuess(t, ts, lobbyID, "ben", "definitely wrong"); result != "wrong" {
		t.Fatalf("expected wrong, got %s", result)
	}
	if result := submitGuess(t, ts, lobbyID, "ada", secret); result != "ignored" {
		t.Fatalf("expected drawer guess to be ignored, got %s", result)
	}

	tickRound(t, srv, lobbyID, 10)
	if result := submitGuess(t, ts, lobbyID, "ben", secret); result != "correct" {
		t.Fatalf("expected correct, got %s", result)
	}

	state = fetchState(t, ts, lobbyID, "ben")
	if state["state"] != "end-of-round" {
		t.Fatalf("expected end-of-round, got %v", state["state"])
	}
	if got := playerScore(t, state, "ben"); got != 100 {
		t.Fatalf("expected guesser score 100, got %d", got)
	}
	if got := playerScore(t, state, "ada"); got != 5 {
		t.Fatalf("expected drawer score 5, got %d", got)
	}
	if state["word"] != secret {
		t.Fatalf("word should be revealed after the round, got %v", state["word"])
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/advance", map[string]string{
		"user_id": "ada",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	state = fetchState(t, ts, lobbyID, "ben")
	if state["round"].(float64) != 2 {
		t.Fatalf("expected round 2, got %v", state["round"])
	}
	// The pencil rotates to the second player.
	if _, err := srv.store.Update(lobbyID, func(sess *Session) error {
		drawer, ok := sess.Engine.Drawer()
		if !ok || drawer.ID != "ben" {
			t.Errorf("expected ben to draw round 2, got %#v", drawer)
		}
		return nil
	}); err != nil {
		t.Fatalf("inspect session: %v", err)
	}
}

func TestRoundTimeoutScoresDrawerOnly(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	lobbyID := createLobby(t, ts, "ada", "Ada")
	joinLobby(t, ts, lobbyID, "ben", "Ben")
	startGame(t, ts, lobbyID, "ada")
	srv.stopSessionTimers(lobbyID)

	words := fetchWordChoices(t, ts, lobbyID, "ada")
	selectWord(t, ts, lobbyID, "ada", words[0])

	tickRound(t, srv, lobbyID, 60)

	state := fetchState(t, ts, lobbyID, "ben")
	if state["state"] != "end-of-round" {
		t.Fatalf("expected end-of-round, got %v", state["state"])
	}
	outcome := state["outcome"].(map[string]any)
	if outcome["guessed"].(bool) {
		t.Fatalf("expected a timed-out round, got %#v", outcome)
	}
	if got := playerScore(t, state, "ada"); got != 10 {
		t.Fatalf("expected drawer consolation 10, got %d", got)
	}
	if got := playerScore(t, state, "ben"); got != 0 {
		t.Fatalf("expected guesser score 0, got %d", got)
	}
}

func TestDesertionEndsTwoPlayerGame(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	lobbyID := createLobby(t, ts, "ada", "Ada")
	joinLobby(t, ts, lobbyID, "ben", "Ben")
	startGame(t, ts, lobbyID, "ada")
	srv.stopSessionTimers(lobbyID)

	words := fetchWordChoices(t, ts, lobbyID, "ada")
	selectWord(t, ts, lobbyID, "ada", words[0])

	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/leave", map[string]string{
		"user_id": "ben",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	state := fetchState(t, ts, lobbyID, "ada")
	if state["state"] != "game-ended" {
		t.Fatalf("expected game-ended, got %v", state["state"])
	}
	if state["status"] != "finished" {
		t.Fatalf("expected finished status, got %v", state["status"])
	}
	result := state["result"].(map[string]any)
	if result["winner_id"] != "ada" || result["deserter_id"] != "ben" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestGameEndsAfterFinalRound(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRounds = 1
	srv := New(nil, cfg)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	lobbyID := createLobby(t, ts, "ada", "Ada")
	joinLobby(t, ts, lobbyID, "ben", "Ben")
	startGame(t, ts, lobbyID, "ada")
	srv.stopSessionTimers(lobbyID)

	words := fetchWordChoices(t, ts, lobbyID, "ada")
	selectWord(t, ts, lobbyID, "ada", words[0])
	tickRound(t, srv, lobbyID, 60)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/advance", map[string]string{
		"user_id": "ada",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	state := fetchState(t, ts, lobbyID, "ada")
	if state["state"] != "game-ended" {
		t.Fatalf("expected game-ended, got %v", state["state"])
	}
	result := state["result"].(map[string]any)
	if result["winner_id"] != "ada" {
		t.Fatalf("expected drawer to win on points, got %#v", result)
	}

	// A second advance on a finished game is rejected.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/advance", map[string]string{
		"user_id": "ada",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestSoloFlow(t *testing.T) {
	cfg := config.Default()
	cfg.BotDrawDelaySeconds = 0
	cfg.BotGuessChance = 0
	srv := New(nil, cfg)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodPost, "/api/solo", map[string]string{
		"user_id": "ty",
		"name":    "Ty",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	lobbyID := decodeBody(t, resp)["lobby_id"].(string)
	srv.stopSessionTimers(lobbyID)

	state := fetchState(t, ts, lobbyID, "ty")
	if state["solo"] != true {
		t.Fatalf("expected solo session, got %#v", state["solo"])
	}
	if state["state"] != "word-selection" {
		t.Fatalf("expected word-selection, got %v", state["state"])
	}

	// Solo sessions never show up in the public list.
	resp = doRequest(t, ts, http.MethodGet, "/api/lobbies", nil)
	if list := decodeBody(t, resp)["lobbies"].([]any); len(list) != 0 {
		t.Fatalf("expected empty lobby list, got %d", len(list))
	}

	words := fetchWordChoices(t, ts, lobbyID, "ty")
	selectWord(t, ts, lobbyID, "ty", words[0])
	tickRound(t, srv, lobbyID, 60)

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/advance", map[string]string{
		"user_id": "ty",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var secret string
	state = fetchState(t, ts, lobbyID, "ty")
	if state["state"] != "bot-drawing" {
		t.Fatalf("expected bot-drawing in round 2, got %v", state["state"])
	}
	if !strings.Contains(state["word"].(string), "_") {
		t.Fatalf("expected masked word for the guesser, got %v", state["word"])
	}
	if err := srv.store.View(lobbyID, func(sess *Session) {
		secret = sess.Engine.SecretWord()
	}); err != nil {
		t.Fatalf("view session: %v", err)
	}

	tickRound(t, srv, lobbyID, 15)
	if result := submitGuess(t, ts, lobbyID, "ty", secret); result != "correct" {
		t.Fatalf("expected correct, got %s", result)
	}
	state = fetchState(t, ts, lobbyID, "ty")
	if got := playerScore(t, state, "ty"); got != 90 {
		t.Fatalf("expected guesser score 90, got %d", got)
	}
	if got := playerScore(t, state, botUserID); got != 5 {
		t.Fatalf("expected bot score 5, got %d", got)
	}
}

func TestBotGuessEndsRound(t *testing.T) {
	srv := New(nil, config.Default())

	sess := srv.store.Create("Solo vs Bot", "ty", "Ty", true)
	_, err := srv.store.Update(sess.ID, func(sess *Session) error {
		engine := game.New(srv.gameConfig(), game.NewWordBank(nil, sess.rng), []game.Player{
			{ID: "ty", Name: "Ty"},
			{ID: botUserID, Name: botName, IsBot: true},
		})
		if err := engine.Start(); err != nil {
			return err
		}
		sess.Engine = engine
		if !engine.SelectWord(engine.WordChoices()[0]) {
			t.Errorf("select word failed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("set up session: %v", err)
	}

	generation := 0
	if err := srv.store.View(sess.ID, func(sess *Session) {
		generation = sess.Engine.Generation()
	}); err != nil {
		t.Fatalf("view session: %v", err)
	}

	// A successful attempt ends the round in the bot's favor.
	srv.fireBotGuess(sess.ID, generation, true)

	if err := srv.store.View(sess.ID, func(sess *Session) {
		if sess.Engine.State() != game.StateEndOfRound {
			t.Errorf("expected end-of-round, got %v", sess.Engine.State())
		}
		outcome := sess.Engine.LastOutcome()
		if outcome == nil || !outcome.Guessed || outcome.GuesserID != botUserID {
			t.Errorf("unexpected outcome: %#v", outcome)
		}
	}); err != nil {
		t.Fatalf("view session: %v", err)
	}

	// A stale generation is swallowed.
	srv.fireBotGuess(sess.ID, generation, true)
}

func TestStaleBotGuessIgnored(t *testing.T) {
	srv := New(nil, config.Default())

	sess := srv.store.Create("Solo vs Bot", "ty", "Ty", true)
	_, err := srv.store.Update(sess.ID, func(sess *Session) error {
		engine := game.New(srv.gameConfig(), game.NewWordBank(nil, sess.rng), []game.Player{
			{ID: "ty", Name: "Ty"},
			{ID: botUserID, Name: botName, IsBot: true},
		})
		if err := engine.Start(); err != nil {
			return err
		}
		sess.Engine = engine
		return nil
	})
	if err != nil {
		t.Fatalf("set up session: %v", err)
	}

	// Generation zero predates the running round.
	srv.fireBotGuess(sess.ID, 0, true)

	if err := srv.store.View(sess.ID, func(sess *Session) {
		if sess.Engine.State() != game.StateWordSelection {
			t.Errorf("expected word-selection untouched, got %v", sess.Engine.State())
		}
	}); err != nil {
		t.Fatalf("view session: %v", err)
	}
}
