package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
)

const categoryColumns = `id, name, color, icon, description, created_at, updated_at`

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

// NewSQLiteCategoryRepo creates a category repository on a *sql.DB or *sql.Tx.
func NewSQLiteCategoryRepo(conn db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: conn}
}

func (r *SQLiteCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Color,
		c.Icon,
		c.Description,
		formatTimestamp(c.CreatedAt),
		formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (r *SQLiteCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// GetByName looks a category up by exact name.
func (r *SQLiteCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = ?`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// List returns categories newest first together with the total count.
func (r *SQLiteCategoryRepo) List(ctx context.Context, page Page) ([]*domain.Category, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting categories: %w", err)
	}

	query, args := withPage(`SELECT `+categoryColumns+` FROM categories ORDER BY created_at DESC, rowid DESC`, nil, page)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, total, nil
}

func (r *SQLiteCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = ?, color = ?, icon = ?, description = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Color,
		c.Icon,
		c.Description,
		formatTimestamp(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return expectAffected(res, "category "+c.ID)
}

// Delete removes the category row only. Owned tasks must be reassigned
// first; any left over are detached by ON DELETE SET NULL.
func (r *SQLiteCategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return expectAffected(res, "category "+id)
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	var icon, description sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(&c.ID, &c.Name, &c.Color, &icon, &description, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning category: %w", err)
	}

	c.Icon = nullStringPtr(icon)
	c.Description = nullStringPtr(description)

	if c.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
