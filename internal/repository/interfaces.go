package repository

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_repository.go -package=mocks

import (
	"context"

	"necx-chat/internal/domain/message"
	"necx-chat/internal/domain/user"
)

// Lookups return (nil, nil) when nothing matches. A malformed id counts as no match.
// Store failures come back as storage errors from pkg/errors.

type UserRepository interface {
	// FindAll returns every user ordered by creation time ascending.
	FindAll(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id string) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	// FindByName matches the whole name, ignoring case.
	FindByName(ctx context.Context, name string) (*user.User, error)
	Count(ctx context.Context) (int64, error)
}

type MessageRepository interface {
	// FindAll returns every message ordered by timestamp ascending.
	FindAll(ctx context.Context) ([]message.Message, error)
	Create(ctx context.Context, m *message.Message) error
	Delete(ctx context.Context, id string) (*message.Message, error)
	FindByID(ctx context.Context, id string) (*message.Message, error)
	Update(ctx context.Context, id string, edit message.Edit) (*message.Message, error)
	Count(ctx context.Context) (int64, error)

	// FindBetween returns the conversation between two names in either direction,
	// ignoring case, ordered by timestamp ascending.
	FindBetween(ctx context.Context, name1, name2 string) ([]message.Message, error)
	// SearchText runs a relevance ranked full-text search over content, sender and
	// recipient. Results are ordered by score then timestamp, both descending.
	SearchText(ctx context.Context, query string, filter message.SearchFilter) ([]message.Message, error)
}
