package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// CreateUser вставляет нового пользователя общего аккаунта и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "repository.CreateUser"

	query := `INSERT INTO users (id, account_id, full_name, phone_number, description,
			      starting_date, ending_date)
			  VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		user.ID, user.AccountID, user.FullName, user.PhoneNumber, user.Description,
		user.StartingDate, user.EndingDate).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateUser обновляет данные пользователя по его ID и возвращает количество
// изменённых строк.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) (int, error) {
	const op = "repository.UpdateUser"

	query := `UPDATE users
			  SET full_name = $1, phone_number = NULLIF($2, ''),
			      description = NULLIF($3, ''), starting_date = $4, ending_date = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		user.FullName, user.PhoneNumber, user.Description,
		user.StartingDate, user.EndingDate, user.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveUser удаляет пользователя по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveUser(ctx context.Context, id string) (int, error) {
	const op = "repository.RemoveUser"

	query := `DELETE FROM users WHERE id = $1`
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

// RemoveUsers удаляет пользователей по списку ID одним запросом.
func (s *Storage) RemoveUsers(ctx context.Context, ids []string) (int, error) {
	const op = "repository.RemoveUsers"

	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM users WHERE id = ANY($1)`
	result, err := s.DB.ExecContext(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListUsersByAccount возвращает всех пользователей общего аккаунта.
func (s *Storage) ListUsersByAccount(ctx context.Context, accountID string) ([]*models.User, error) {
	const op = "repository.ListUsersByAccount"

	query := `SELECT id, account_id, full_name, COALESCE(phone_number, ''),
			      COALESCE(description, ''), starting_date, ending_date, created_at
			  FROM users
			  WHERE account_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(&item.ID, &item.AccountID, &item.FullName, &item.PhoneNumber,
			&item.Description, &item.StartingDate, &item.EndingDate, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadUser возвращает пользователя по его ID.
func (s *Storage) ReadUser(ctx context.Context, id string) (*models.User, error) {
	const op = "repository.ReadUser"

	query := `SELECT id, account_id, full_name, COALESCE(phone_number, ''),
			      COALESCE(description, ''), starting_date, ending_date, created_at
			  FROM users WHERE id = $1`
	var item models.User
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.AccountID, &item.FullName, &item.PhoneNumber,
		&item.Description, &item.StartingDate, &item.EndingDate, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}
