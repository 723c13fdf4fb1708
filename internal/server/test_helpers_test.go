package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func createLobby(t *testing.T, ts *httptest.Server, userID, userName string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies", map[string]string{
		"user_id":   userID,
		"user_name": userName,
		"name":      userName + "'s table",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["lobby_id"].(string)
}

func joinLobby(t *testing.T, ts *httptest.Server, lobbyID, userID, name string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/join", map[string]string{
		"user_id": userID,
		"name":    name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func startGame(t *testing.T, ts *httptest.Server, lobbyID, userID string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies/"+lobbyID+"/start", map[string]string{
		"user_id": userID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func fetchState(t *testing.T, ts *httptest.Server, lobbyID, viewerID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+lobbyID+"/state?user_id="+viewerID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func fetchWordChoices(t *testing.T, ts *httptest.Server, lobbyID, userID string) []string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+lobbyID+"/words?user_id="+userID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	raw, ok := body["words"].([]any)
	if !ok {
		t.Fatalf("expected word list, got %#v", body["words"])
	}
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		words = append(words, w.(string))
	}
	return words
}

func selectWord(t *testing.T, ts *httptest.Server, lobbyID, userID, word string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/word", map[string]string{
		"user_id": userID,
		"word":    word,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func submitGuess(t *testing.T, ts *httptest.Server, lobbyID, userID, text string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+lobbyID+"/guess", map[string]string{
		"user_id": userID,
		"text":    text,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["result"].(string)
}

// tickRound drives the engine clock directly to keep tests independent of
// the wall-clock ticker.
func tickRound(t *testing.T, srv *Server, lobbyID string, seconds int) {
	t.Helper()
	_, err := srv.store.Update(lobbyID, func(sess *Session) error {
		if sess.Engine == nil {
			return errGameNotRunning
		}
		for i := 0; i < seconds; i++ {
			sess.Engine.Tick()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tick round: %v", err)
	}
}

func playerScore(t *testing.T, snapshot map[string]any, playerID string) int {
	t.Helper()
	players, ok := snapshot["players"].([]any)
	if !ok {
		t.Fatalf("expected players in snapshot, got %#v", snapshot["players"])
	}
	for _, raw := range players {
		p := raw.(map[string]any)
		if p["id"] == playerID {
			return int(p["score"].(float64))
		}
	}
	t.Fatalf("player %s not in snapshot", playerID)
	return 0
}
