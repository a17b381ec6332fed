// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"fmt"

	"github.com/go-playground/validator"

	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Fields — список нарушений валидации по полям (опционально).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
	Fields []models.FieldError `json:"fields,omitempty"`
	Data   any                 `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// FieldErrors формирует Response со статусом Error и списком нарушений
// по полям. Используется для ошибок валидации аккаунта.
func FieldErrors(errs []models.FieldError) Response {
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: errs,
	}
}

// ValidationError переводит ошибки go-playground/validator в список
// нарушений с кодами таксономии.
func ValidationError(errs validator.ValidationErrors) Response {
	var fields []models.FieldError

	for _, err := range errs {
		fe := models.FieldError{Field: err.Field()}
		switch err.ActualTag() {
		case "required":
			fe.Code = models.CodeMissingRequiredField
			fe.Message = fmt.Sprintf("field %s is a required field", err.Field())
		case "min":
			fe.Code = models.CodeFieldTooShort
			fe.Message = fmt.Sprintf("field %s is too short", err.Field())
		case "max":
			fe.Code = models.CodeFieldTooLong
			fe.Message = fmt.Sprintf("field %s is too long", err.Field())
		case "email":
			fe.Code = models.CodeInvalidEmail
			fe.Message = fmt.Sprintf("field %s must be a valid email", err.Field())
		case "uuid":
			fe.Code = models.CodeInvalidChoice
			fe.Message = fmt.Sprintf("field %s must be a valid uuid", err.Field())
		default:
			fe.Code = models.CodeInvalidChoice
			fe.Message = fmt.Sprintf("field %s is not valid", err.Field())
		}
		fields = append(fields, fe)
	}
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: fields,
	}
}
