package grimoire

import "time"

// Structure is the persisted folder/file tree of one game for one structure
// type (e.g. "files", "characters"). It is always replaced as a whole.
type Structure struct {
	GameID    string    `json:"gameId" db:"game_id"`
	Type      string    `json:"type" db:"type"`
	Nodes     []*Node   `json:"structure" db:"structure"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
