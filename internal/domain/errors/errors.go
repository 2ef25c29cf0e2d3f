package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrBadRequest             = errors.New("bad request")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrUserNotFound           = errors.New("User not found")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrRevenueAlreadyRecorded = errors.New("revenue already recorded for this source")
	ErrInvalidTransition      = errors.New("transaction is not in the expected state")
	ErrInvalidPin             = errors.New("invalid transaction PIN")
	ErrBankAccountRequired    = errors.New("Please select a bank account")
	ErrUnsupportedGateway     = errors.New("unsupported payment gateway")
	ErrInvalidSignature       = errors.New("invalid webhook signature")
)

// Error codes carried in API error bodies
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeConflict            = "CONFLICT"
	CodeUnprocessable       = "UNPROCESSABLE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func UnprocessableEntity(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeUnprocessable, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// InsufficientBalanceError carries the figures behind a failed debit.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientBalanceError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance. Available: ₦%s, Required: ₦%s, Shortfall: ₦%s",
		e.Available.StringFixed(2), e.Required.StringFixed(2), e.Shortfall().StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientFunds
}
