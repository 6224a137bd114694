package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db}
}

// List returns the newest posts first. A limit of zero returns all of them.
func (r *NewsRepository) List(ctx context.Context, limit int) ([]entity.News, error) {
	query := `SELECT id, title, content, image_url, published_at FROM news ORDER BY published_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	news := []entity.News{}
	for rows.Next() {
		var post entity.News
		var imageURL sql.NullString
		var publishedAt sql.NullTime
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &imageURL, &publishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		post.ImageURL = stringPtr(imageURL)
		post.PublishedAt = timePtr(publishedAt)
		news = append(news, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return news, nil
}

func (r *NewsRepository) Create(ctx context.Context, post *entity.News) (int, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO news (title, content, image_url) VALUES (?, ?, ?)`,
		post.Title, post.Content, post.ImageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create news: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read news id: %w", err)
	}
	post.ID = int(id)
	return post.ID, nil
}

type PriceListRepository struct {
	db *sql.DB
}

func NewPriceListRepository(db *sql.DB) *PriceListRepository {
	return &PriceListRepository{db}
}

func (r *PriceListRepository) List(ctx context.Context) ([]entity.PriceList, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, file_url, created_at FROM price_lists ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list price lists: %w", err)
	}
	defer rows.Close()

	lists := []entity.PriceList{}
	for rows.Next() {
		var list entity.PriceList
		var createdAt sql.NullTime
		if err := rows.Scan(&list.ID, &list.Title, &list.FileURL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan price list: %w", err)
		}
		list.CreatedAt = timePtr(createdAt)
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list price lists: %w", err)
	}
	return lists, nil
}

func (r *PriceListRepository) Create(ctx context.Context, list *entity.PriceList) (int, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO price_lists (title, file_url) VALUES (?, ?)`, list.Title, list.FileURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create price list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read price list id: %w", err)
	}
	list.ID = int(id)
	return list.ID, nil
}
