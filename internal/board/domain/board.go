package domain

import "time"

// Board is the persisted record of a whiteboard. Live session state is kept
// separately by the session hub and is not persisted.
type Board struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}
