package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

const collectionColumns = `c.id, c.owner_id, c.name, c.invite_code, c.created_at, c.updated_at`

func (r *SQLiteRepository) scanCollection(s scanner, extra ...any) (*domain.Collection, error) {
	var (
		c                    domain.Collection
		createdAt, updatedAt string
	)
	dest := append([]any{&c.ID, &c.OwnerID, &c.Name, &c.InviteCode, &createdAt, &updatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	c.CreatedAt = r.instant(createdAt, "created_at", c.ID)
	c.UpdatedAt = r.instant(updatedAt, "updated_at", c.ID)
	return &c, nil
}

func (r *SQLiteRepository) CreateCollection(ctx context.Context, collection *domain.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}
	query := `INSERT INTO collections (id, owner_id, name, invite_code, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		collection.ID, collection.OwnerID, collection.Name, collection.InviteCode,
		stamp(collection.CreatedAt), stamp(collection.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) getCollectionBy(ctx context.Context, column, value string) (*domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c WHERE c.` + column + ` = ?`
	c, err := r.scanCollection(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *SQLiteRepository) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	return r.getCollectionBy(ctx, "id", id)
}

func (r *SQLiteRepository) GetCollectionByInvite(ctx context.Context, code string) (*domain.Collection, error) {
	return r.getCollectionBy(ctx, "invite_code", code)
}

// CollectionsVisibleTo lists collections the user owns or belongs to.
// MemberCount excludes the owner.
func (r *SQLiteRepository) CollectionsVisibleTo(ctx context.Context, userID string) ([]domain.CollectionWithCount, error) {
	query := `SELECT ` + collectionColumns + `,
				(SELECT COUNT(DISTINCT m.user_id) FROM collection_members m WHERE m.collection_id = c.id)
			  FROM collections c
			  WHERE c.owner_id = ?
			     OR c.id IN (SELECT collection_id FROM collection_members WHERE user_id = ?)
			  ORDER BY c.name, c.id`
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CollectionWithCount
	for rows.Next() {
		var count int64
		c, err := r.scanCollection(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CollectionWithCount{Collection: *c, MemberCount: count})
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) RenameCollection(ctx context.Context, id, ownerID, name string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE collections SET name = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		name, stamp(at), id, ownerID)
	if err != nil {
		return false, fmt.Errorf("rename collection: %w", err)
	}
	return affected(res)
}

func (r *SQLiteRepository) RotateInvite(ctx context.Context, id, ownerID, code string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE collections SET invite_code = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		code, stamp(at), id, ownerID)
	if err != nil {
		return false, fmt.Errorf("rotate invite: %w", err)
	}
	return affected(res)
}

// DeleteCollection drops the collection and its memberships. Entries in it
// become private to their owners.
func (r *SQLiteRepository) DeleteCollection(ctx context.Context, id, ownerID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE id = ? AND owner_id = ?`, id, ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE entries SET collection_id = NULL WHERE collection_id = ?`, id); err != nil {
		return false, fmt.Errorf("detach entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_members WHERE collection_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete collection: %w", err)
	}
	return true, tx.Commit()
}

func (r *SQLiteRepository) IsMember(ctx context.Context, collectionID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM collection_members WHERE collection_id = ? AND user_id = ?)`,
		collectionID, userID).Scan(&exists)
	return exists, err
}

func (r *SQLiteRepository) IsOwner(ctx context.Context, collectionID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM collections WHERE id = ? AND owner_id = ?)`,
		collectionID, userID).Scan(&exists)
	return exists, err
}

// AddMember is idempotent.
func (r *SQLiteRepository) AddMember(ctx context.Context, member *domain.CollectionMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collection_members (collection_id, user_id, joined_at) VALUES (?, ?, ?)`,
		member.CollectionID, member.UserID, stamp(member.JoinedAt))
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveMember(ctx context.Context, collectionID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM collection_members WHERE collection_id = ? AND user_id = ?`, collectionID, userID)
	if err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}
	return affected(res)
}

func (r *SQLiteRepository) CollectionMembers(ctx context.Context, collectionID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u
			  JOIN collection_members m ON m.user_id = u.id
			  WHERE m.collection_id = ?
			  ORDER BY m.joined_at, u.name`
	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
