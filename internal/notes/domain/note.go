package domain

import "time"

// Note is a free-text note owned by exactly one user.
type Note struct {
	ID        int64
	UserID    string // identity provider user id
	Note      string
	CreatedAt time.Time
	UpdatedAt *time.Time // nil until the first edit
}

// LastTouched is when the note was last written.
func (n Note) LastTouched() time.Time {
	if n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}
