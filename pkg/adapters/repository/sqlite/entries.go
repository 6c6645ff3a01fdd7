package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

const entryColumns = `e.id, e.user_id, e.collection_id, e.url, e.title, e.description,
	e.duration, e.interval, e.dismissed_at, e.created_at, e.updated_at`

const visitCountColumn = `(SELECT COUNT(*) FROM visits v WHERE v.entry_id = e.id)`

// visibleTo matches entries the user owns or can reach through a
// collection they belong to or own. Takes the user id three times.
const visibleTo = `(e.user_id = ?
	OR e.collection_id IN (SELECT collection_id FROM collection_members WHERE user_id = ?)
	OR e.collection_id IN (SELECT id FROM collections WHERE owner_id = ?))`

func (r *SQLiteRepository) scanEntry(s scanner, extra ...any) (*domain.Entry, error) {
	var (
		e                                      domain.Entry
		collectionID, description, dismissedAt sql.NullString
		interval, createdAt, updatedAt         string
	)
	dest := append([]any{
		&e.ID, &e.UserID, &collectionID, &e.URL, &e.Title, &description,
		&e.Duration, &interval, &dismissedAt, &createdAt, &updatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	unit, err := domain.ParseInterval(interval)
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", domain.ErrDataIntegrity, e.ID, err)
	}
	e.Interval = unit
	e.CollectionID = stringPtr(collectionID)
	e.Description = stringPtr(description)
	if dismissedAt.Valid {
		t := r.instant(dismissedAt.String, "dismissed_at", e.ID)
		e.DismissedAt = &t
	}
	e.CreatedAt = r.instant(createdAt, "created_at", e.ID)
	e.UpdatedAt = r.instant(updatedAt, "updated_at", e.ID)
	return &e, nil
}

func (r *SQLiteRepository) queryEntriesWithCount(ctx context.Context, query string, args ...any) ([]domain.EntryWithCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EntryWithCount
	for rows.Next() {
		var count int64
		e, err := r.scanEntry(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.EntryWithCount{Entry: *e, VisitCount: count})
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateEntry(ctx context.Context, entry *domain.Entry, tags []string) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO entries (id, user_id, collection_id, url, title, description, duration, interval, dismissed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		entry.ID, entry.UserID, nullableString(entry.CollectionID), entry.URL, entry.Title,
		nullableString(entry.Description), entry.Duration, entry.Interval.String(),
		nullableStamp(entry.DismissedAt), stamp(entry.CreatedAt), stamp(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	if err := r.linkTags(ctx, tx, entry.ID, tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries e WHERE e.id = ?`
	e, err := r.scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return e, err
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, entry *domain.Entry, tags []string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	query := `UPDATE entries SET collection_id = ?, url = ?, title = ?, description = ?, duration = ?, interval = ?, updated_at = ?
			  WHERE id = ? AND user_id = ?`
	res, err := tx.ExecContext(ctx, query,
		nullableString(entry.CollectionID), entry.URL, entry.Title, nullableString(entry.Description),
		entry.Duration, entry.Interval.String(), stamp(entry.UpdatedAt),
		entry.ID, entry.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("update entry: %w", err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, entry.ID); err != nil {
		return false, fmt.Errorf("clear entry tags: %w", err)
	}
	if err := r.linkTags(ctx, tx, entry.ID, tags); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id, ownerID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return false, err
	}

	// libsql connections may run without foreign key enforcement
	if _, err := tx.ExecContext(ctx, `DELETE FROM visits WHERE entry_id = ?`, id); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *SQLiteRepository) EntryTags(ctx context.Context, entryID string) ([]string, error) {
	query := `SELECT t.name FROM tags t JOIN entry_tags et ON et.tag_id = t.id
			  WHERE et.entry_id = ? ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (r *SQLiteRepository) VisitCount(ctx context.Context, entryID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE entry_id = ?`, entryID).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) EntriesVisibleTo(ctx context.Context, userID string) ([]domain.EntryWithCount, error) {
	query := `SELECT ` + entryColumns + `, ` + visitCountColumn + ` FROM entries e WHERE ` + visibleTo
	return r.queryEntriesWithCount(ctx, query, userID, userID, userID)
}

func (r *SQLiteRepository) EntriesInCollection(ctx context.Context, collectionID string) ([]domain.EntryWithCount, error) {
	query := `SELECT ` + entryColumns + `, ` + visitCountColumn + ` FROM entries e WHERE e.collection_id = ?`
	return r.queryEntriesWithCount(ctx, query, collectionID)
}

func (r *SQLiteRepository) EntriesWithTag(ctx context.Context, userID, tag string) ([]domain.EntryWithCount, error) {
	query := `SELECT ` + entryColumns + `, ` + visitCountColumn + ` FROM entries e
			  WHERE ` + visibleTo + `
			  AND EXISTS (SELECT 1 FROM entry_tags et JOIN tags t ON t.id = et.tag_id
			              WHERE et.entry_id = e.id AND t.name = ?)`
	return r.queryEntriesWithCount(ctx, query, userID, userID, userID, tag)
}

func (r *SQLiteRepository) OwnedEntries(ctx context.Context, userID string) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries e WHERE e.user_id = ? ORDER BY e.created_at, e.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Move the schedule
	res, err := tx.ExecContext(ctx, `UPDATE entries SET dismissed_at = ?, updated_at = ? WHERE id = ?`,
		stamp(visit.VisitedAt), stamp(visit.VisitedAt), visit.EntryID)
	if err != nil {
		return fmt.Errorf("dismiss entry: %w", err)
	}
	if ok, err := affected(res); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotFound
	}

	// 2. Insert Visit Record
	queryVisit := `INSERT INTO visits (id, entry_id, user_id, visited_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, queryVisit, visit.ID, visit.EntryID, visit.UserID, stamp(visit.VisitedAt)); err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteRepository) TagsForUser(ctx context.Context, userID string) ([]domain.TagCount, error) {
	query := `SELECT t.name, COUNT(*) FROM tags t
			  JOIN entry_tags et ON et.tag_id = t.id
			  JOIN entries e ON e.id = et.entry_id
			  WHERE e.user_id = ?
			  GROUP BY t.id, t.name
			  ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TagCount
	for rows.Next() {
		var c domain.TagCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// linkTags creates missing tags and attaches them to the entry. Both
// inserts are idempotent.
func (r *SQLiteRepository) linkTags(ctx context.Context, tx *sql.Tx, entryID string, names []string) error {
	at := r.now()
	for _, name := range names {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`,
			uuid.NewString(), name, at)
		if err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}

		var tagID string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return fmt.Errorf("lookup tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO entry_tags (entry_id, tag_id) VALUES (?, ?)`, entryID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// ImportEntries stores a legacy dump in one transaction, adding
// VisitCount visit rows per entry stamped with the import time.
func (r *SQLiteRepository) ImportEntries(ctx context.Context, entries []domain.ImportedEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	at := r.now()
	for i := range entries {
		e := &entries[i].Entry
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, user_id, collection_id, url, title, description, duration, interval, dismissed_at, created_at, updated_at)
			 VALUES (?, ?, NULL, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.UserID, e.URL, e.Title, nullableString(e.Description), e.Duration, e.Interval.String(),
			nullableStamp(e.DismissedAt), stamp(e.CreatedAt), stamp(e.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("import entry %q: %w", e.URL, err)
		}

		for n := int64(0); n < entries[i].VisitCount; n++ {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO visits (id, entry_id, user_id, visited_at) VALUES (?, ?, ?, ?)`,
				uuid.NewString(), e.ID, e.UserID, at)
			if err != nil {
				return fmt.Errorf("import visits for %q: %w", e.URL, err)
			}
		}
	}
	return tx.Commit()
}
