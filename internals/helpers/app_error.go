package helper

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind klasifikasi error aplikasi; nilainya juga dipakai sebagai error_code di response.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindAuth       ErrorKind = "UNAUTHORIZED"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindState      ErrorKind = "INVALID_STATE"
	KindConflict   ErrorKind = "CONFLICT"
	KindInternal   ErrorKind = "INTERNAL_ERROR"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Status memetakan kind ke HTTP status.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation, KindState:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrValidation(msg string) *AppError { return &AppError{Kind: KindValidation, Message: msg} }
func ErrAuth(msg string) *AppError       { return &AppError{Kind: KindAuth, Message: msg} }
func ErrForbidden(msg string) *AppError  { return &AppError{Kind: KindForbidden, Message: msg} }
func ErrNotFound(msg string) *AppError   { return &AppError{Kind: KindNotFound, Message: msg} }
func ErrState(msg string) *AppError      { return &AppError{Kind: KindState, Message: msg} }
func ErrConflict(msg string) *AppError   { return &AppError{Kind: KindConflict, Message: msg} }

// ErrInternal membungkus error store/library; pesan ke client selalu generik.
func ErrInternal(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf mengembalikan kind dari err; error asing dianggap internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return kindFromStatus(fe.Code)
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool { return KindOf(err) == kind }

func kindFromStatus(status int) ErrorKind {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return KindValidation
	case fiber.StatusUnauthorized:
		return KindAuth
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	case fiber.StatusTooManyRequests:
		return ErrorKind("TOO_MANY_REQUESTS")
	case fiber.StatusRequestEntityTooLarge:
		return ErrorKind("PAYLOAD_TOO_LARGE")
	default:
		if status >= 500 {
			return KindInternal
		}
		return ErrorKind("ERROR")
	}
}
