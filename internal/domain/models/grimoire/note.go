package grimoire

import "time"

// Note is the content record behind a structure file node. Data is freeform
// text, JSON for typed files (profiles, races, items, character sheets).
type Note struct {
	ID        int64     `json:"id" db:"id"`
	GameID    string    `json:"game_id" db:"game_id"`
	NodeID    string    `json:"node_id" db:"node_id"`
	FileType  string    `json:"file_type" db:"file_type"`
	Img       string    `json:"img" db:"img"`
	Data      string    `json:"data" db:"data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NoteFilter narrows ListNotes results
type NoteFilter struct {
	FileTypes []string // empty = all
}
