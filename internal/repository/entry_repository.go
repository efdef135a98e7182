package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/blog-system/internal/model"
)

// EntryRepo encapsulates queries on entries and their category links.
type EntryRepo struct{ DB *sql.DB }

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{DB: db} }

const entrySelect = `SELECT e.id, e.title, e.body, e.published_at, e.is_published, e.user_id, u.username,
	(SELECT COUNT(*) FROM comments c WHERE c.entry_id = e.id)
	FROM entries e JOIN users u ON u.id = e.user_id`

func scanEntry(row interface{ Scan(...any) error }) (*model.Entry, error) {
	e := new(model.Entry)
	if err := row.Scan(&e.ID, &e.Title, &e.Body, &e.PublishedAt, &e.IsPublished, &e.UserID, &e.Author, &e.CommentCount); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EntryRepo) list(ctx context.Context, q string, args ...any) ([]*model.Entry, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPublished returns one page of published entries, newest first, and
// the total number of published entries.
func (r *EntryRepo) ListPublished(ctx context.Context, limit, offset int) ([]*model.Entry, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE is_published = 1").Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.list(ctx, entrySelect+" WHERE e.is_published = 1 ORDER BY e.published_at DESC, e.id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll returns drafts and published entries for the admin area.
func (r *EntryRepo) ListAll(ctx context.Context) ([]*model.Entry, error) {
	return r.list(ctx, entrySelect+" ORDER BY e.published_at DESC, e.id DESC")
}

// GetByID fetches one entry. ErrNotFound when absent.
func (r *EntryRepo) GetByID(ctx context.Context, id uint64) (*model.Entry, error) {
	e, err := scanEntry(r.DB.QueryRowContext(ctx, entrySelect+" WHERE e.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// CategoryIDs returns the ids of the categories linked to an entry.
func (r *EntryRepo) CategoryIDs(ctx context.Context, entryID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT category_id FROM entry_categories WHERE entry_id = ? ORDER BY category_id", entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CategoryNames maps entry ids to the names of their categories. With no
// ids every link is loaded.
func (r *EntryRepo) CategoryNames(ctx context.Context, entryIDs ...uint64) (map[uint64][]string, error) {
	q := `SELECT ec.entry_id, c.name FROM entry_categories ec
	      JOIN categories c ON c.id = ec.category_id`
	if len(entryIDs) > 0 {
		q += " WHERE ec.entry_id IN (" + placeholders(len(entryIDs)) + ")"
	}
	q += " ORDER BY c.name"
	rows, err := r.DB.QueryContext(ctx, q, idArgs(entryIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[uint64][]string{}
	for rows.Next() {
		var (
			id   uint64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = append(out[id], name)
	}
	return out, rows.Err()
}

// Create inserts the entry and its category links in one transaction and
// sets e.ID.
func (r *EntryRepo) Create(ctx context.Context, e *model.Entry, categoryIDs []uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO entries (title, body, published_at, is_published, user_id) VALUES (?, ?, ?, ?, ?)",
		e.Title, e.Body, e.PublishedAt, e.IsPublished, e.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return linkCategories(ctx, tx, e.ID, categoryIDs)
}

// Update rewrites the entry and replaces its category links.
func (r *EntryRepo) Update(ctx context.Context, e *model.Entry, categoryIDs []uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE entries SET title = ?, body = ?, published_at = ?, is_published = ? WHERE id = ?",
		e.Title, e.Body, e.PublishedAt, e.IsPublished, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM entry_categories WHERE entry_id = ?", e.ID); err != nil {
		return err
	}
	return linkCategories(ctx, tx, e.ID, categoryIDs)
}

// linkCategories inserts one link per distinct category id.
func linkCategories(ctx context.Context, tx *sql.Tx, entryID uint64, categoryIDs []uint64) error {
	for _, cid := range distinct(categoryIDs) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO entry_categories (entry_id, category_id) VALUES (?, ?)", entryID, cid); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes entries; comments and category links go with them
// through ON DELETE CASCADE. It returns the number of removed entries.
func (r *EntryRepo) Delete(ctx context.Context, ids ...uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM entries WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
