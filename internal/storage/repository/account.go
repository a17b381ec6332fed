package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// CreateAccount вставляет новый аккаунт и возвращает его ID.
// Персональные поля пишутся только для аккаунтов вида personal,
// для общих аккаунтов соответствующие колонки остаются NULL.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	const op = "repository.CreateAccount"

	var fullName, phone any
	var startingDate, endingDate any
	if account.Personal != nil {
		fullName = account.Personal.FullName
		if account.Personal.PhoneNumber != "" {
			phone = account.Personal.PhoneNumber
		}
		startingDate = account.Personal.StartingDate
		endingDate = account.Personal.EndingDate
	}

	query := `INSERT INTO accounts (id, service_id, name, email, details, account_type,
			      thumbnail_url, expires_at, user_full_name, user_phone_number,
			      account_starting_date, account_ending_date)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		account.ID, account.ServiceID, account.Name, account.Email, account.Details,
		account.AccountType, account.ThumbnailURL, account.ExpiresAt,
		fullName, phone, startingDate, endingDate).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadAccount возвращает аккаунт по его ID вместе с названием сервиса.
func (s *Storage) ReadAccount(ctx context.Context, id string) (*models.AccountInfo, error) {
	const op = "repository.ReadAccount"

	query := `SELECT a.id, a.service_id, a.name, a.email, COALESCE(a.details, ''),
			      a.account_type, COALESCE(a.thumbnail_url, ''), a.expires_at, a.created_at,
			      a.user_full_name, a.user_phone_number,
			      a.account_starting_date, a.account_ending_date,
			      s.name
			  FROM accounts a
			  JOIN services s ON s.id = a.service_id
			  WHERE a.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	item, err := scanAccountInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListAccountsByService возвращает все аккаунты сервиса.
func (s *Storage) ListAccountsByService(ctx context.Context, serviceID string) ([]*models.AccountInfo, error) {
	const op = "repository.ListAccountsByService"

	query := `SELECT a.id, a.service_id, a.name, a.email, COALESCE(a.details, ''),
			      a.account_type, COALESCE(a.thumbnail_url, ''), a.expires_at, a.created_at,
			      a.user_full_name, a.user_phone_number,
			      a.account_starting_date, a.account_ending_date,
			      s.name
			  FROM accounts a
			  JOIN services s ON s.id = a.service_id
			  WHERE a.service_id = $1
			  ORDER BY a.created_at`
	rows, err := s.DB.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AccountInfo
	for rows.Next() {
		item, err := scanAccountInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAccount обновляет данные аккаунта по его ID и возвращает количество
// изменённых строк. Вид аккаунта не обновляется: он неизменяем после создания.
func (s *Storage) UpdateAccount(ctx context.Context, account models.Account) (int, error) {
	const op = "repository.UpdateAccount"

	var fullName, phone any
	var startingDate, endingDate any
	if account.Personal != nil {
		fullName = account.Personal.FullName
		if account.Personal.PhoneNumber != "" {
			phone = account.Personal.PhoneNumber
		}
		startingDate = account.Personal.StartingDate
		endingDate = account.Personal.EndingDate
	}

	query := `UPDATE accounts
			  SET name = $1, email = $2, details = NULLIF($3, ''),
			      thumbnail_url = NULLIF($4, ''), expires_at = $5,
			      user_full_name = $6, user_phone_number = $7,
			      account_starting_date = $8, account_ending_date = $9
			  WHERE id = $10`
	result, err := s.DB.ExecContext(ctx, query,
		account.Name, account.Email, account.Details, account.ThumbnailURL,
		account.ExpiresAt, fullName, phone, startingDate, endingDate, account.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveAccount удаляет аккаунт по ID, каскадно удаляя его пользователей.
func (s *Storage) RemoveAccount(ctx context.Context, id string) (int, error) {
	const op = "repository.RemoveAccount"

	query := `DELETE FROM accounts WHERE id = $1`
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

// FindAccountsByIDs возвращает краткие данные аккаунтов по списку ID одним
// запросом. Используется при сборке кандидатов, чтобы не делать по запросу
// на каждого пользователя.
func (s *Storage) FindAccountsByIDs(ctx context.Context, ids []string) (map[string]*models.AccountRef, error) {
	const op = "repository.FindAccountsByIDs"

	result := make(map[string]*models.AccountRef, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT a.id, a.name, a.email, s.name
			  FROM accounts a
			  JOIN services s ON s.id = a.service_id
			  WHERE a.id = ANY($1)`
	rows, err := s.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var ref models.AccountRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email, &ref.ServiceName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[ref.ID] = &ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountInfo(row rowScanner) (*models.AccountInfo, error) {
	var item models.AccountInfo
	var expiresAt sql.NullTime
	var fullName, phone sql.NullString
	var startingDate, endingDate sql.NullTime

	if err := row.Scan(&item.ID, &item.ServiceID, &item.Name, &item.Email, &item.Details,
		&item.AccountType, &item.ThumbnailURL, &expiresAt, &item.CreatedAt,
		&fullName, &phone, &startingDate, &endingDate, &item.ServiceName); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		item.ExpiresAt = &expiresAt.Time
	}
	if item.AccountType == models.AccountTypePersonal {
		item.Personal = &models.PersonalDetails{
			FullName:     fullName.String,
			PhoneNumber:  phone.String,
			StartingDate: startingDate.Time,
			EndingDate:   endingDate.Time,
		}
	}
	return &item, nil
}
