package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/blog-system/internal/model"
)

// CommentRepo encapsulates queries on the `comments` table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentSelect = `SELECT id, entry_id, name, COALESCE(email, ''), COALESCE(website, ''), body, COALESCE(reply, ''), created_at
	FROM comments`

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	c := new(model.Comment)
	if err := row.Scan(&c.ID, &c.EntryID, &c.Name, &c.Email, &c.Website, &c.Body, &c.Reply, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepo) list(ctx context.Context, q string, args ...any) ([]*model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every comment, newest first.
func (r *CommentRepo) ListAll(ctx context.Context) ([]*model.Comment, error) {
	return r.list(ctx, commentSelect+" ORDER BY created_at DESC, id DESC")
}

// ListByEntry returns the comments of one entry, newest first.
func (r *CommentRepo) ListByEntry(ctx context.Context, entryID uint64) ([]*model.Comment, error) {
	return r.list(ctx, commentSelect+" WHERE entry_id = ? ORDER BY created_at DESC, id DESC", entryID)
}

// GetByID fetches one comment. ErrNotFound when absent.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	c, err := scanComment(r.DB.QueryRowContext(ctx, commentSelect+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Create inserts a comment and sets c.ID.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (entry_id, name, email, website, body, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.EntryID, c.Name, nullable(c.Email), nullable(c.Website), c.Body, c.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update rewrites the editable fields of a comment, including the admin reply.
func (r *CommentRepo) Update(ctx context.Context, c *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET name = ?, email = ?, website = ?, body = ?, reply = ? WHERE id = ?",
		c.Name, nullable(c.Email), nullable(c.Website), c.Body, nullable(c.Reply), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes comments and returns how many were removed.
func (r *CommentRepo) Delete(ctx context.Context, ids ...uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM comments WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
