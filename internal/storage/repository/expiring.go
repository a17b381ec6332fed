package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// FindExpiringPersonalAccountsByDate находит персональные аккаунты,
// истекающие ровно в указанную дату. Используется ежедневной рассылкой.
func (s *Storage) FindExpiringPersonalAccountsByDate(ctx context.Context, date string) ([]*models.PersonalExpiry, error) {
	const op = "repository.FindExpiringPersonalAccountsByDate"

	query := personalExpiryQuery + ` AND a.expires_at = $1::date`
	return s.queryPersonalExpiry(ctx, op, query, date)
}

// FindExpiringPersonalAccountsInRange находит персональные аккаунты,
// истекающие в диапазоне [from, to] включительно. Используется
// административным предпросмотром.
func (s *Storage) FindExpiringPersonalAccountsInRange(ctx context.Context, from, to string) ([]*models.PersonalExpiry, error) {
	const op = "repository.FindExpiringPersonalAccountsInRange"

	query := personalExpiryQuery + ` AND a.expires_at BETWEEN $1::date AND $2::date`
	return s.queryPersonalExpiry(ctx, op, query, from, to)
}

const personalExpiryQuery = `SELECT a.id, a.name, s.name, a.email,
			      a.user_full_name, COALESCE(a.user_phone_number, ''), a.expires_at
			  FROM accounts a
			  JOIN services s ON s.id = a.service_id
			  WHERE a.account_type = 'personal'
			    AND a.expires_at IS NOT NULL`

func (s *Storage) queryPersonalExpiry(ctx context.Context, op, query string, args ...any) ([]*models.PersonalExpiry, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PersonalExpiry
	for rows.Next() {
		var item models.PersonalExpiry
		var fullName sql.NullString
		if err := rows.Scan(&item.AccountID, &item.AccountName, &item.ServiceName,
			&item.Email, &fullName, &item.PhoneNumber, &item.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.UserFullName = fullName.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindExpiringUsersByDate находит пользователей общих аккаунтов,
// чья подписка заканчивается ровно в указанную дату.
func (s *Storage) FindExpiringUsersByDate(ctx context.Context, date string) ([]*models.UserExpiry, error) {
	const op = "repository.FindExpiringUsersByDate"

	query := userExpiryQuery + ` WHERE u.ending_date = $1::date`
	return s.queryUserExpiry(ctx, op, query, date)
}

// FindExpiringUsersInRange находит пользователей общих аккаунтов,
// чья подписка заканчивается в диапазоне [from, to] включительно.
func (s *Storage) FindExpiringUsersInRange(ctx context.Context, from, to string) ([]*models.UserExpiry, error) {
	const op = "repository.FindExpiringUsersInRange"

	query := userExpiryQuery + ` WHERE u.ending_date BETWEEN $1::date AND $2::date`
	return s.queryUserExpiry(ctx, op, query, from, to)
}

const userExpiryQuery = `SELECT u.id, u.account_id, u.full_name,
			      COALESCE(u.phone_number, ''), u.ending_date
			  FROM users u`

func (s *Storage) queryUserExpiry(ctx context.Context, op, query string, args ...any) ([]*models.UserExpiry, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserExpiry
	for rows.Next() {
		var item models.UserExpiry
		if err := rows.Scan(&item.UserID, &item.AccountID, &item.FullName,
			&item.PhoneNumber, &item.EndingDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
