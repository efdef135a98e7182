package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/blog-system/internal/model"
)

// CategoryRepo encapsulates queries on the `categories` table.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Category
	for rows.Next() {
		c := new(model.Category)
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a category. ErrNotFound when absent.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	if err := r.DB.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category and sets c.ID. ErrDuplicate if the name is taken.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", c.Name)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Rename changes the name of a category.
func (r *CategoryRepo) Rename(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes categories. When any of them is still linked to an
// entry nothing is deleted and ErrConflict is returned.
func (r *CategoryRepo) Delete(ctx context.Context, ids ...uint64) (n int64, err error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	in := "(" + placeholders(len(ids)) + ")"
	var linked int
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entry_categories WHERE category_id IN "+in, idArgs(ids)...).Scan(&linked); err != nil {
		return 0, err
	}
	if linked > 0 {
		return 0, ErrConflict
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id IN "+in, idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
