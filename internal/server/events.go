package server

// EventPayload is the persisted JSON body of an audit event.
type EventPayload struct {
	LobbyID       string `json:"lobby_id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	PlayerName    string `json:"player,omitempty"`
	Round         int    `json:"round,omitempty"`
	Word          string `json:"word,omitempty"`
	GuesserID     string `json:"guesser_id,omitempty"`
	GuesserPoints int    `json:"guesser_points,omitempty"`
	DrawerID      string `json:"drawer_id,omitempty"`
	DrawerPoints  int    `json:"drawer_points,omitempty"`
	WinnerID      string `json:"winner_id,omitempty"`
	DeserterID    string `json:"deserter_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Reason        string `json:"reason,omitempty"`
}
