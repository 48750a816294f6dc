// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/qolzam/newsroom/internal/database/postgres"
	"github.com/qolzam/newsroom/news/models"
)

// postgresRepository implements NewsRepository using raw SQL queries
type postgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL repository for news
func NewPostgresRepository(client *postgres.Client) NewsRepository {
	return &postgresRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

const newsColumns = `id, owner_user_id, title, excerpt, body, images, version, created_at, updated_at`

// Create inserts a new news row
func (r *postgresRepository) Create(ctx context.Context, news *models.News) error {
	if news.CreatedAt.IsZero() {
		news.CreatedAt = time.Now()
	}
	if news.UpdatedAt.IsZero() {
		news.UpdatedAt = news.CreatedAt
	}
	if news.Images == nil {
		news.Images = pq.StringArray{}
	}

	query := `
		INSERT INTO news (id, owner_user_id, title, excerpt, body, images, version, created_at, updated_at)
		VALUES (:id, :owner_user_id, :title, :excerpt, :body, :images, :version, :created_at, :updated_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, news)
	if err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

// FindByID retrieves a news item by its ID
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = $1`

	var news models.News
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &news, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find news: %w", err)
	}
	return &news, nil
}

// FindByUser retrieves news owned by userID with pagination
func (r *postgresRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.News, error) {
	query := `
		SELECT ` + newsColumns + `
		FROM news
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	var items []models.News
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &items, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to find news by user: %w", err)
	}

	result := make([]*models.News, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

// Find retrieves news matching the filter with pagination
func (r *postgresRepository) Find(ctx context.Context, filter NewsFilter, limit, offset int) ([]*models.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.OwnerUserId != nil {
		query += fmt.Sprintf(" AND owner_user_id = $%d", argPos)
		args = append(args, *filter.OwnerUserId)
		argPos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR excerpt ILIKE $%d OR body ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	var items []models.News
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find news: %w", err)
	}

	result := make([]*models.News, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

// Count returns the number of news matching the filter
func (r *postgresRepository) Count(ctx context.Context, filter NewsFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM news WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.OwnerUserId != nil {
		query += fmt.Sprintf(" AND owner_user_id = $%d", argPos)
		args = append(args, *filter.OwnerUserId)
		argPos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR excerpt ILIKE $%d OR body ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
	}

	var count int64
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return count, nil
}

// Update writes the full field set guarded by the optimistic version
// check. The version the caller loaded must still be current; the row
// version is bumped in the same statement.
func (r *postgresRepository) Update(ctx context.Context, news *models.News) error {
	news.UpdatedAt = time.Now()
	if news.Images == nil {
		news.Images = pq.StringArray{}
	}

	query := `
		UPDATE news
		SET title = :title,
		    excerpt = :excerpt,
		    body = :body,
		    images = :images,
		    version = version + 1,
		    updated_at = :updated_at
		WHERE id = :id AND version = :version`

	result, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, news)
	if err != nil {
		return fmt.Errorf("failed to update news: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	news.Version++
	return nil
}

// Delete removes the news row
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListImageRefs returns every image reference held by any news row
func (r *postgresRepository) ListImageRefs(ctx context.Context) ([]string, error) {
	query := `SELECT UNNEST(images) FROM news`

	var refs []string
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &refs, query); err != nil {
		return nil, fmt.Errorf("failed to list image refs: %w", err)
	}
	return refs, nil
}
