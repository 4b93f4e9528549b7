package message

import (
	"database/sql"
	"time"
)

const (
	MaxContentLength = 1000
	MinQueryLength   = 2
	SearchLimit      = 50
)

// Message represents the messages table / collection.
// Sender and Recipient hold user names, not references.
type Message struct {
	ID        string
	Content   string
	Sender    string
	Recipient string
	Timestamp time.Time
	EditedAt  sql.NullTime
	IsEdited  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edit is the only mutation a stored message accepts.
type Edit struct {
	Content  string
	EditedAt time.Time
}

// SearchFilter narrows a text search. Zero values mean "no filter".
type SearchFilter struct {
	Sender    string
	Recipient string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
}

// EffectiveLimit returns the filter limit bounded by SearchLimit.
func (f SearchFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > SearchLimit {
		return SearchLimit
	}
	return f.Limit
}
