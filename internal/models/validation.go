package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator"

	"github.com/avdeenko/subscription-dashboard/internal/lib/datemath"
)

// Коды ошибок валидации аккаунта. Каждая ошибка несёт путь поля,
// чтобы форма могла подсветить конкретное поле.
const (
	CodeFieldTooShort        = "FieldTooShort"
	CodeFieldTooLong         = "FieldTooLong"
	CodeInvalidEmail         = "InvalidEmail"
	CodeInvalidChoice        = "InvalidChoice"
	CodeMissingRequiredField = "MissingRequiredField"
	CodeUnexpectedField      = "UnexpectedField"
	CodeInvalidDate          = "InvalidDate"
	CodeInvalidDateOrder     = "InvalidDateOrder"
)

// FieldError одно нарушение правил валидации.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const maxDetailsLen = 255

var accountValidate = validator.New()

// Validate проверяет все правила аккаунта разом и возвращает полный список
// нарушений, не останавливаясь на первом. Пустой список означает, что
// запрос корректен.
func (d DummyAccount) Validate() []FieldError {
	var errs []FieldError

	if len(d.Name) < 2 {
		errs = append(errs, FieldError{
			Field:   "name",
			Code:    CodeFieldTooShort,
			Message: "name must be at least 2 characters",
		})
	}
	if err := accountValidate.Var(d.Email, "required,email"); err != nil {
		errs = append(errs, FieldError{
			Field:   "email",
			Code:    CodeInvalidEmail,
			Message: "email must be a valid address",
		})
	}
	if len(d.Details) > maxDetailsLen {
		errs = append(errs, FieldError{
			Field:   "details",
			Code:    CodeFieldTooLong,
			Message: fmt.Sprintf("details must not exceed %d characters", maxDetailsLen),
		})
	}

	switch d.AccountType {
	case AccountTypePersonal:
		errs = append(errs, d.validatePersonal()...)
	case AccountTypeShared:
		errs = append(errs, d.validateShared()...)
	default:
		errs = append(errs, FieldError{
			Field:   "account_type",
			Code:    CodeInvalidChoice,
			Message: "account_type must be personal or shared",
		})
	}

	if d.ExpiresAt != "" {
		if _, err := datemath.Parse(d.ExpiresAt); err != nil {
			errs = append(errs, FieldError{
				Field:   "expires_at",
				Code:    CodeInvalidDate,
				Message: "expires_at must be a date in format 2006-01-02",
			})
		}
	}

	return errs
}

func (d DummyAccount) validatePersonal() []FieldError {
	var errs []FieldError

	switch {
	case d.UserFullName == "":
		errs = append(errs, FieldError{
			Field:   "user_full_name",
			Code:    CodeMissingRequiredField,
			Message: "user_full_name is required for personal accounts",
		})
	case len(d.UserFullName) < 2:
		errs = append(errs, FieldError{
			Field:   "user_full_name",
			Code:    CodeFieldTooShort,
			Message: "user_full_name must be at least 2 characters",
		})
	}

	start, startOK := d.requireDate("account_starting_date", d.AccountStartingDate, &errs)
	end, endOK := d.requireDate("account_ending_date", d.AccountEndingDate, &errs)
	if startOK && endOK && !start.Before(end) {
		errs = append(errs, FieldError{
			Field:   "account_starting_date",
			Code:    CodeInvalidDateOrder,
			Message: "account_starting_date must be before account_ending_date",
		})
	}
	return errs
}

func (d DummyAccount) validateShared() []FieldError {
	var errs []FieldError
	// Персональные поля недопустимы на общем аккаунте
	forbidden := map[string]string{
		"user_full_name":        d.UserFullName,
		"user_phone_number":     d.UserPhoneNumber,
		"account_starting_date": d.AccountStartingDate,
		"account_ending_date":   d.AccountEndingDate,
	}
	for _, field := range []string{"user_full_name", "user_phone_number", "account_starting_date", "account_ending_date"} {
		if forbidden[field] != "" {
			errs = append(errs, FieldError{
				Field:   field,
				Code:    CodeUnexpectedField,
				Message: fmt.Sprintf("%s must not be set on shared accounts", field),
			})
		}
	}
	return errs
}

func (d DummyAccount) requireDate(field, value string, errs *[]FieldError) (time.Time, bool) {
	if value == "" {
		*errs = append(*errs, FieldError{
			Field:   field,
			Code:    CodeMissingRequiredField,
			Message: fmt.Sprintf("%s is required for personal accounts", field),
		})
		return time.Time{}, false
	}
	t, err := datemath.Parse(value)
	if err != nil {
		*errs = append(*errs, FieldError{
			Field:   field,
			Code:    CodeInvalidDate,
			Message: fmt.Sprintf("%s must be a date in format 2006-01-02", field),
		})
		return time.Time{}, false
	}
	return t, true
}
