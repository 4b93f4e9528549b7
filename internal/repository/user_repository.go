package repository

import (
	"context"
	"errors"
	"time"

	"necx-chat/internal/domain/user"
	necx_errors "necx-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, created_at, updated_at`

type PostgresUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u  user.User
		id uuid.UUID
	)
	if err := row.Scan(&id, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	return &u, nil
}

func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, necx_errors.Storage("fetch users", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, necx_errors.Storage("fetch users", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, necx_errors.Storage("fetch users", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (id, name, created_at, updated_at) VALUES ($1, $2, $3, $3) RETURNING `+userColumns,
		uuid.New(), u.Name, now,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return necx_errors.Conflict("User with this name already exists")
		}
		return necx_errors.Storage("create user", err)
	}
	*u = *created
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) (*user.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	row := r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, uid)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, necx_errors.Storage("delete user", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, necx_errors.Storage("fetch user", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(name) = lower($1)`, name)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, necx_errors.Storage("fetch user", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, necx_errors.Storage("count users", err)
	}
	return total, nil
}
