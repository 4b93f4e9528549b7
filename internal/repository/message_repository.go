package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"necx-chat/internal/domain/message"
	necx_errors "necx-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const messageColumns = `id, content, sender, recipient, sent_at, edited_at, is_edited, created_at, updated_at`

type PostgresMessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*message.Message, error) {
	var (
		m  message.Message
		id uuid.UUID
	)
	err := row.Scan(&id, &m.Content, &m.Sender, &m.Recipient, &m.Timestamp,
		&m.EditedAt, &m.IsEdited, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.ID = id.String()
	return &m, nil
}

func (r *PostgresMessageRepository) list(ctx context.Context, op, query string, args ...any) ([]message.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, necx_errors.Storage(op, err)
	}
	defer rows.Close()

	messages := make([]message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, necx_errors.Storage(op, err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, necx_errors.Storage(op, err)
	}
	return messages, nil
}

func (r *PostgresMessageRepository) one(ctx context.Context, op, query string, args ...any) (*message.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, necx_errors.Storage(op, err)
	}
	return m, nil
}

func (r *PostgresMessageRepository) FindAll(ctx context.Context) ([]message.Message, error) {
	return r.list(ctx, "fetch messages",
		`SELECT `+messageColumns+` FROM messages ORDER BY sent_at ASC, created_at ASC`)
}

// Create stamps created_at and updated_at from the application clock, the same
// clock that stamps edits, so edited_at never precedes created_at.
func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	now := time.Now().UTC()
	created, err := r.one(ctx, "create message",
		`INSERT INTO messages (id, content, sender, recipient, sent_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING `+messageColumns,
		uuid.New(), m.Content, m.Sender, m.Recipient, m.Timestamp, now,
	)
	if err != nil {
		return err
	}
	if created == nil {
		return necx_errors.Storage("create message", pgx.ErrNoRows)
	}
	*m = *created
	return nil
}

func (r *PostgresMessageRepository) Delete(ctx context.Context, id string) (*message.Message, error) {
	mid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return r.one(ctx, "delete message",
		`DELETE FROM messages WHERE id = $1 RETURNING `+messageColumns, mid)
}

func (r *PostgresMessageRepository) FindByID(ctx context.Context, id string) (*message.Message, error) {
	mid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return r.one(ctx, "fetch message",
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, mid)
}

func (r *PostgresMessageRepository) Update(ctx context.Context, id string, edit message.Edit) (*message.Message, error) {
	mid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return r.one(ctx, "update message",
		`UPDATE messages
		 SET content = $2, edited_at = $3, is_edited = TRUE, updated_at = $3
		 WHERE id = $1
		 RETURNING `+messageColumns,
		mid, edit.Content, edit.EditedAt,
	)
}

func (r *PostgresMessageRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
		return 0, necx_errors.Storage("count messages", err)
	}
	return total, nil
}

func (r *PostgresMessageRepository) FindBetween(ctx context.Context, name1, name2 string) ([]message.Message, error) {
	return r.list(ctx, "fetch messages between users",
		`SELECT `+messageColumns+` FROM messages
		 WHERE (lower(sender) = lower($1) AND lower(recipient) = lower($2))
		    OR (lower(sender) = lower($2) AND lower(recipient) = lower($1))
		 ORDER BY sent_at ASC, created_at ASC`,
		name1, name2,
	)
}

func (r *PostgresMessageRepository) SearchText(ctx context.Context, query string, filter message.SearchFilter) ([]message.Message, error) {
	tsQuery := buildTSQuery(query)
	if tsQuery == "" {
		return []message.Message{}, nil
	}

	args := []any{tsQuery}
	conds := []string{"search_vector @@ q"}
	if filter.Sender != "" {
		args = append(args, filter.Sender)
		conds = append(conds, fmt.Sprintf("lower(sender) = lower($%d)", len(args)))
	}
	if filter.Recipient != "" {
		args = append(args, filter.Recipient)
		conds = append(conds, fmt.Sprintf("lower(recipient) = lower($%d)", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("sent_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("sent_at <= $%d", len(args)))
	}
	args = append(args, filter.EffectiveLimit())

	sql := fmt.Sprintf(
		`SELECT %s FROM messages, to_tsquery('english', $1) AS q
		 WHERE %s
		 ORDER BY ts_rank(search_vector, q) DESC, sent_at DESC
		 LIMIT $%d`,
		messageColumns, strings.Join(conds, " AND "), len(args),
	)
	return r.list(ctx, "search messages", sql, args...)
}
