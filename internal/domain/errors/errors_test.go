package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Error())
	assert.ErrorIs(t, err, ErrBadRequest)

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.ErrorIs(t, notFound, ErrNotFound)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)
	assert.Equal(t, "internal server error", internal.Error())

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeInvalidInput, badReq.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)

	forbidden := Forbidden("forbidden")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
	assert.Equal(t, CodeForbidden, forbidden.Code)

	unprocessable := UnprocessableEntity("nope", ErrInvalidTransition)
	assert.Equal(t, http.StatusUnprocessableEntity, unprocessable.Status)
	assert.ErrorIs(t, unprocessable, ErrInvalidTransition)
}

func TestAppError_ErrorFallbacks(t *testing.T) {
	withErr := &AppError{Status: http.StatusBadGateway, Err: stderrors.New("upstream")}
	assert.Equal(t, "upstream", withErr.Error())

	bare := &AppError{Status: http.StatusTeapot}
	assert.Equal(t, http.StatusText(http.StatusTeapot), bare.Error())
}

func TestInsufficientBalanceError(t *testing.T) {
	err := &InsufficientBalanceError{
		Available: decimal.NewFromInt(1500),
		Required:  decimal.RequireFromString("2000.5"),
	}
	assert.Equal(t, "Insufficient balance. Available: ₦1500.00, Required: ₦2000.50, Shortfall: ₦500.50", err.Error())
	assert.True(t, err.Shortfall().Equal(decimal.RequireFromString("500.5")))

	wrapped := fmt.Errorf("pay: %w", err)
	assert.ErrorIs(t, wrapped, ErrInsufficientFunds)

	var target *InsufficientBalanceError
	assert.True(t, stderrors.As(wrapped, &target))
}
