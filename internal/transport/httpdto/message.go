package httpdto

import (
	"time"

	"necx-chat/internal/domain/message"

	"github.com/samber/lo"
)

// CreateMessageRequest is used for POST /api/messages
type CreateMessageRequest struct {
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

// UpdateMessageRequest is used for PUT /api/messages/:id
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// BetweenUsersQuery holds query parameters for GET /api/messages/between
type BetweenUsersQuery struct {
	User1 string `form:"user1"`
	User2 string `form:"user2"`
}

// SearchMessagesQuery holds query parameters for GET /api/messages/search
type SearchMessagesQuery struct {
	Q         string `form:"q"`
	Sender    string `form:"sender"`
	Recipient string `form:"recipient"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
}

// Filters echoes the filters the caller supplied, omitting empty ones.
func (q SearchMessagesQuery) Filters() map[string]string {
	filters := map[string]string{}
	if q.Sender != "" {
		filters["sender"] = q.Sender
	}
	if q.Recipient != "" {
		filters["recipient"] = q.Recipient
	}
	if q.DateFrom != "" {
		filters["dateFrom"] = q.DateFrom
	}
	if q.DateTo != "" {
		filters["dateTo"] = q.DateTo
	}
	return filters
}

// MessageDTO represents a message in API responses. Times are always UTC.
type MessageDTO struct {
	ID        string     `json:"_id"`
	Content   string     `json:"content"`
	Sender    string     `json:"sender"`
	Recipient string     `json:"recipient"`
	Timestamp time.Time  `json:"timestamp"`
	EditedAt  *time.Time `json:"editedAt"`
	IsEdited  bool       `json:"isEdited"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SearchMessagesResponse is returned by GET /api/messages/search
type SearchMessagesResponse struct {
	Success bool              `json:"success"`
	Data    []MessageDTO      `json:"data"`
	Count   int               `json:"count"`
	Query   string            `json:"query"`
	Filters map[string]string `json:"filters"`
}

func FromMessage(m message.Message) MessageDTO {
	dto := MessageDTO{
		ID:        m.ID,
		Content:   m.Content,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Timestamp: m.Timestamp.UTC(),
		IsEdited:  m.IsEdited,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.EditedAt.Valid {
		editedAt := m.EditedAt.Time.UTC()
		dto.EditedAt = &editedAt
	}
	return dto
}

func FromMessages(messages []message.Message) []MessageDTO {
	return lo.Map(messages, func(m message.Message, _ int) MessageDTO {
		return FromMessage(m)
	})
}

func NewSearchMessagesResponse(messages []message.Message, q SearchMessagesQuery) SearchMessagesResponse {
	data := FromMessages(messages)
	return SearchMessagesResponse{
		Success: true,
		Data:    data,
		Count:   len(data),
		Query:   q.Q,
		Filters: q.Filters(),
	}
}
