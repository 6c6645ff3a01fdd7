package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

const userColumns = `u.id, u.name, u.email, u.invite_code, u.created_at, u.updated_at`

func (r *SQLiteRepository) scanUser(s scanner) (*domain.User, error) {
	var (
		u                    domain.User
		email                sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&u.ID, &u.Name, &email, &u.InviteCode, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.Email = stringPtr(email)
	u.CreatedAt = r.instant(createdAt, "created_at", u.ID)
	u.UpdatedAt = r.instant(updatedAt, "updated_at", u.ID)
	return &u, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `INSERT INTO users (id, name, email, invite_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, nullableString(user.Email), user.InviteCode,
		stamp(user.CreatedAt), stamp(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) getUserBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.` + column + ` = ?`
	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *SQLiteRepository) GetUserByInvite(ctx context.Context, code string) (*domain.User, error) {
	return r.getUserBy(ctx, "invite_code", code)
}
