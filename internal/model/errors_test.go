package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	var err error = &NotFoundError{Entity: "account", ID: int64(7)}
	assert.True(t, errors.Is(fmt.Errorf("loading: %w", err), ErrNotFound))
	assert.Equal(t, "account 7 not found", err.Error())

	err = &ConflictError{Entity: "group", ID: int64(2), Reason: "accounts reference it"}
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(ErrNoActiveYear, ErrState))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.OrNil())

	errs = append(errs,
		&ValidationError{Entity: "transaction", Field: "amount", Message: "must be positive"},
		&ValidationError{Entity: "transaction", Field: "to_account", Message: "must differ from from_account"},
	)
	err := errs.OrNil()
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "transaction.amount: must be positive")
	assert.Contains(t, err.Error(), "transaction.to_account")
}

func TestDateRangeValidate(t *testing.T) {
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, DateRange{From: from, To: to}.Validate())
	assert.NoError(t, DateRange{From: from, To: from}.Validate())

	err := DateRange{From: to, To: from}.Validate()
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "invalid range")

	r := DateRange{From: from, To: to}
	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to))
	assert.False(t, r.Contains(to.AddDate(0, 0, 1)))
}
