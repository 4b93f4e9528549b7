package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"necx-chat/internal/domain/message"
	"necx-chat/internal/repository"
	necx_errors "necx-chat/pkg/errors"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type CreateMessageInput struct {
	Content   string
	Sender    string
	Recipient string
	Timestamp *time.Time
}

type UpdateMessageInput struct {
	Content string
}

// SearchFilters carries the raw filter values from the caller. Empty fields are ignored.
type SearchFilters struct {
	Sender    string
	Recipient string
	DateFrom  string
	DateTo    string
}

func (s *MessageService) GetAllMessages(ctx context.Context) ([]message.Message, error) {
	messages, err := s.messageRepo.FindAll(ctx)
	if err != nil {
		return nil, necx_errors.AsStorage("fetch messages", err)
	}
	return messages, nil
}

func (s *MessageService) GetMessagesBetweenUsers(ctx context.Context, user1, user2 string) ([]message.Message, error) {
	const op = "fetch messages between users"
	user1, user2 = strings.TrimSpace(user1), strings.TrimSpace(user2)

	if err := s.requireUser(ctx, op, user1, "User '%s' does not exist"); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, op, user2, "User '%s' does not exist"); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindBetween(ctx, user1, user2)
	if err != nil {
		return nil, necx_errors.AsStorage(op, err)
	}
	return messages, nil
}

func (s *MessageService) CreateMessage(ctx context.Context, in CreateMessageInput) (*message.Message, error) {
	const op = "create message"

	content, err := requireContent(in.Content)
	if err != nil {
		return nil, err
	}
	sender := strings.TrimSpace(in.Sender)
	if sender == "" {
		return nil, necx_errors.Validation("Sender is required")
	}
	recipient := strings.TrimSpace(in.Recipient)
	if recipient == "" {
		return nil, necx_errors.Validation("Recipient is required")
	}

	if err := s.requireUser(ctx, op, sender, "Sender must be a valid user"); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, op, recipient, "Recipient must be a valid user"); err != nil {
		return nil, err
	}

	timestamp := s.now()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		timestamp = in.Timestamp.UTC()
	}

	m := &message.Message{
		Content:   content,
		Sender:    sender,
		Recipient: recipient,
		Timestamp: timestamp,
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, necx_errors.AsStorage(op, err)
	}
	return m, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, id string) (*message.Message, error) {
	if strings.TrimSpace(id) == "" {
		return nil, necx_errors.Validation("Message ID is required")
	}
	deleted, err := s.messageRepo.Delete(ctx, id)
	if err != nil {
		return nil, necx_errors.AsStorage("delete message", err)
	}
	if deleted == nil {
		return nil, necx_errors.NotFound("Message not found")
	}
	return deleted, nil
}

// UpdateMessage replaces the content and always stamps the edit, even when the
// content is unchanged.
func (s *MessageService) UpdateMessage(ctx context.Context, id string, in UpdateMessageInput) (*message.Message, error) {
	const op = "update message"

	if strings.TrimSpace(id) == "" {
		return nil, necx_errors.Validation("Message ID is required")
	}
	content, err := requireContent(in.Content)
	if err != nil {
		return nil, err
	}

	existing, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, necx_errors.AsStorage(op, err)
	}
	if existing == nil {
		return nil, necx_errors.NotFound("Message not found")
	}

	updated, err := s.messageRepo.Update(ctx, id, message.Edit{Content: content, EditedAt: s.now()})
	if err != nil {
		return nil, necx_errors.AsStorage(op, err)
	}
	if updated == nil {
		return nil, necx_errors.NotFound("Message not found")
	}
	return updated, nil
}

func (s *MessageService) SearchMessages(ctx context.Context, query string, filters SearchFilters) ([]message.Message, error) {
	const op = "search messages"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, necx_errors.Validation("Search query is required")
	}
	if utf8.RuneCountInString(query) < message.MinQueryLength {
		return nil, necx_errors.Validation("Search query must be at least 2 characters long")
	}

	var filter message.SearchFilter
	if sender := strings.TrimSpace(filters.Sender); sender != "" {
		if err := s.requireUser(ctx, op, sender, "Sender '%s' does not exist"); err != nil {
			return nil, err
		}
		filter.Sender = sender
	}
	if recipient := strings.TrimSpace(filters.Recipient); recipient != "" {
		if err := s.requireUser(ctx, op, recipient, "Recipient '%s' does not exist"); err != nil {
			return nil, err
		}
		filter.Recipient = recipient
	}

	var err error
	if filter.DateFrom, err = parseDate("dateFrom", filters.DateFrom); err != nil {
		return nil, err
	}
	if filter.DateTo, err = parseDate("dateTo", filters.DateTo); err != nil {
		return nil, err
	}
	filter.Limit = message.SearchLimit

	messages, err := s.messageRepo.SearchText(ctx, query, filter)
	if err != nil {
		return nil, necx_errors.AsStorage(op, err)
	}
	return messages, nil
}

func requireContent(content string) (string, error) {
	return requireText(content, message.MaxContentLength,
		"Message content is required", "Message content must be less than 1000 characters")
}

// requireUser fails with a validation error built from msg when name matches no user.
// msg may contain a single %s for the name.
func (s *MessageService) requireUser(ctx context.Context, op, name, msg string) error {
	if name != "" {
		u, err := s.userRepo.FindByName(ctx, name)
		if err != nil {
			return necx_errors.AsStorage(op, err)
		}
		if u != nil {
			return nil
		}
	}
	if strings.Contains(msg, "%s") {
		return necx_errors.Validation(fmt.Sprintf(msg, name))
	}
	return necx_errors.Validation(msg)
}
