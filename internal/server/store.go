package server

import (
	"crypto/rand"
	"errors"
	mrand "math/rand"
	"sort"
	"sync"
	"time"

	"gartic-show/internal/db"
	"gartic-show/internal/game"

	"github.com/google/uuid"
)

var (
	errLobbyNotFound    = errors.New("lobby not found")
	errLobbyNotWaiting  = errors.New("lobby is not waiting for players")
	errNotCreator       = errors.New("only the creator can do that")
	errNotEnoughPlayers = errors.New("not enough players")
	errGameNotRunning   = errors.New("game is not running")
	errNotDrawer        = errors.New("only the drawer can do that")
	errWordNotOffered   = errors.New("word was not offered")
)

// RosterEntry is a participant of a waiting lobby, before the engine exists.
type RosterEntry struct {
	UserID   string
	Name     string
	IsReady  bool
	JoinedAt time.Time
}

// Session is one lobby and, once started, its running game. All fields are
// guarded by the store mutex; handlers and timer callbacks only touch a
// session inside Store.Update or Store.View.
type Session struct {
	ID        string
	JoinCode  string
	Name      string
	Status    string
	CreatorID string
	Solo      bool
	CreatedAt time.Time
	Roster    []RosterEntry
	Engine    *game.Engine

	// rng drives word draws and bot decisions for this session. Safe because
	// every use happens under the store mutex.
	rng *mrand.Rand
}

// FindRosterEntry looks a participant up by user ID.
func (sess *Session) FindRosterEntry(userID string) (*RosterEntry, bool) {
	for i := range sess.Roster {
		if sess.Roster[i].UserID == userID {
			return &sess.Roster[i], true
		}
	}
	return nil, false
}

// LobbySummary is the list view of a session.
type LobbySummary struct {
	ID       string `json:"lobby_id"`
	JoinCode string `json:"join_code"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Players  int    `json:"players"`
}

// Store owns every live session. One mutex serializes all mutations, which
// gives each game instance the single-control-flow model the engine requires.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	users    map[string]string
	seedFn   func() int64
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		users:    make(map[string]string),
		seedFn:   func() int64 { return time.Now().UnixNano() },
	}
}

// Create registers a new waiting session with the creator already joined.
func (s *Store) Create(name, creatorID, creatorName string, solo bool) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		JoinCode:  newJoinCode(),
		Name:      name,
		Status:    db.StatusWaiting,
		CreatorID: creatorID,
		Solo:      solo,
		CreatedAt: now,
		Roster: []RosterEntry{
			{UserID: creatorID, Name: creatorName, JoinedAt: now},
		},
		rng: mrand.New(mrand.NewSource(s.seedFn())),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Update runs fn with exclusive access to the session. Errors from fn are
// passed through; the session pointer is returned for read-only follow-up.
func (s *Store) Update(id string, fn func(sess *Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errLobbyNotFound
	}
	if err := fn(sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// View runs fn with shared access semantics (still exclusive under the one
// mutex); fn must not mutate the session.
func (s *Store) View(id string, fn func(sess *Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return errLobbyNotFound
	}
	fn(sess)
	return nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ListByStatus summarizes sessions in one status, oldest first. Solo sessions
// are private and never listed.
func (s *Store) ListByStatus(status string) []LobbySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]LobbySummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.Solo || sess.Status != status {
			continue
		}
		list = append(list, LobbySummary{
			ID:       sess.ID,
			JoinCode: sess.JoinCode,
			Name:     sess.Name,
			Status:   sess.Status,
			Players:  len(sess.Roster),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return s.sessions[list[i].ID].CreatedAt.Before(s.sessions[list[j].ID].CreatedAt)
	})
	return list
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

func newJoinCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}
