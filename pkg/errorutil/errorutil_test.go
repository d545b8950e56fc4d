package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsMatchByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFound("ticket", map[string]any{"ticket_id": 7}))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestStoreFailureHidesDriverDetail(t *testing.T) {
	driverErr := errors.New("pq: connection refused")
	domainErr := ToDomainError(NewStoreFailure(driverErr))

	assert.Equal(t, CodeStoreFailure, domainErr.Code)
	assert.Equal(t, "internal server error", domainErr.Message)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.NotErrorIs(t, domainErr, driverErr)
	assert.Nil(t, errors.Unwrap(domainErr))
	assert.Contains(t, domainErr.Error(), "connection refused")
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))

	assert.ErrorIs(t, domainErr, ErrStoreFailure)
	assert.Nil(t, ToDomainError(nil))
}
