package server

import (
	"net/http"
	"sync"

	"gartic-show/internal/config"
	"gartic-show/internal/game"

	"gorm.io/gorm"
)

// Server wires the game engine to its collaborators: HTTP handlers, the
// websocket hub, per-session timers, and best-effort Postgres persistence.
// A nil DB connection runs everything in memory.
type Server struct {
	store *Store
	db    *gorm.DB
	cfg   config.Config
	hub   *wsHub

	timersMu sync.Mutex
	timers   map[string]chan struct{}
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  NewStore(),
		db:     conn,
		cfg:    cfg,
		hub:    newWSHub(),
		timers: make(map[string]chan struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", s.handleRegisterUser)
	mux.HandleFunc("POST /api/lobbies", s.handleCreateLobby)
	mux.HandleFunc("GET /api/lobbies", s.handleListLobbies)
	mux.HandleFunc("GET /api/lobbies/{id}", s.handleGetLobby)
	mux.HandleFunc("POST /api/lobbies/{id}/join", s.handleJoinLobby)
	mux.HandleFunc("POST /api/lobbies/{id}/ready", s.handleReady)
	mux.HandleFunc("POST /api/lobbies/{id}/leave", s.handleLeave)
	mux.HandleFunc("POST /api/lobbies/{id}/start", s.handleStartGame)
	mux.HandleFunc("POST /api/solo", s.handleCreateSolo)
	mux.HandleFunc("GET /api/games/{id}/state", s.handleGameState)
	mux.HandleFunc("GET /api/games/{id}/words", s.handleWordChoices)
	mux.HandleFunc("POST /api/games/{id}/word", s.handleSelectWord)
	mux.HandleFunc("POST /api/games/{id}/guess", s.handleGuess)
	mux.HandleFunc("POST /api/games/{id}/advance", s.handleAdvance)
	mux.HandleFunc("GET /api/profiles/{user_id}", s.handleProfile)
	mux.HandleFunc("GET /ws/games/{id}", s.handleGameWebsocket)
	mux.HandleFunc("GET /ws/lobbies", s.handleLobbyWebsocket)
	return mux
}

func (s *Server) gameConfig() game.Config {
	return game.Config{
		MaxRounds:    s.cfg.MaxRounds,
		RoundSeconds: s.cfg.RoundSeconds,
		WordChoices:  s.cfg.WordChoices,
	}
}

func (s *Server) botTiming() game.BotTiming {
	return game.BotTiming{
		DrawDelay:   secondsToDuration(s.cfg.BotDrawDelaySeconds),
		GuessMin:    secondsToDuration(s.cfg.BotGuessMinSeconds),
		GuessMax:    secondsToDuration(s.cfg.BotGuessMaxSeconds),
		GuessChance: s.cfg.BotGuessChance,
	}
}
