package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// CreateService вставляет новый сервис и возвращает его ID.
func (s *Storage) CreateService(ctx context.Context, service models.Service) (string, error) {
	const op = "repository.CreateService"

	query := `INSERT INTO services (id, name, thumbnail_url)
			  VALUES ($1, $2, NULLIF($3, ''))
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		service.ID, service.Name, service.ThumbnailURL).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadService возвращает сервис по его ID.
func (s *Storage) ReadService(ctx context.Context, id string) (*models.Service, error) {
	const op = "repository.ReadService"

	query := `SELECT id, name, COALESCE(thumbnail_url, ''), created_at
			  FROM services WHERE id = $1`
	var result models.Service
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&result.ID, &result.Name, &result.ThumbnailURL, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListServices возвращает все сервисы с количеством привязанных аккаунтов.
func (s *Storage) ListServices(ctx context.Context) ([]*models.ServiceInfo, error) {
	const op = "repository.ListServices"

	query := `SELECT s.id, s.name, COALESCE(s.thumbnail_url, ''), s.created_at,
			      COUNT(a.id) AS accounts_count
			  FROM services s
			  LEFT JOIN accounts a ON a.service_id = s.id
			  GROUP BY s.id
			  ORDER BY s.created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ServiceInfo
	for rows.Next() {
		var item models.ServiceInfo
		if err := rows.Scan(&item.ID, &item.Name, &item.ThumbnailURL,
			&item.CreatedAt, &item.AccountsCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveService удаляет сервис по ID, каскадно удаляя его аккаунты
// и их пользователей. Возвращает количество удалённых сервисов.
func (s *Storage) RemoveService(ctx context.Context, id string) (int, error) {
	const op = "repository.RemoveService"

	query := `DELETE FROM services WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
