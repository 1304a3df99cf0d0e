package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/watercycle-memory/internal/api/shared"
	"github.com/phrazzld/watercycle-memory/internal/domain"
	"github.com/phrazzld/watercycle-memory/internal/service"
	"github.com/phrazzld/watercycle-memory/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "session not found",
			err:            service.NewGameServiceError("get_game", "failed to find session", store.ErrSessionNotFound),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Game not found",
		},
		{
			name:           "game ended",
			err:            service.NewGameServiceError("flip", "game has ended", service.ErrGameEnded),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Game not found",
		},
		{
			name:           "card not found",
			err:            fmt.Errorf("%w: position 99", domain.ErrCardNotFound),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Card not found",
		},
		{
			name:           "store full",
			err:            store.NewStoreError("session", "save", "capacity reached", store.ErrStoreFull),
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "Too many active games, try again later",
		},
		{
			name:           "validation",
			err:            fmt.Errorf("%w: id has invalid format", domain.ErrValidation),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request",
		},
		{
			name:           "unknown",
			err:            errors.New("template exploded at /srv/app/page.html"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.expectedMsg, GetSafeErrorMessage(tc.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestHandleAPIError(t *testing.T) {
	t.Run("default message for unmapped errors", func(t *testing.T) {
		rec, req := newRecorder()
		HandleAPIError(rec, req, errors.New("boom"), "Failed to flip card")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to flip card", decodeError(t, rec).Error)
	})

	t.Run("mapped message wins", func(t *testing.T) {
		rec, req := newRecorder()
		HandleAPIError(rec, req, store.ErrSessionNotFound, "Failed to flip card")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Game not found", resp.Error)
		assert.IsType(t, shared.ErrorResponse{}, resp)
	})
}

func TestSanitizeValidationError(t *testing.T) {
	negative := -2
	err := shared.ValidateRequest(&FlipRequest{Position: &negative})
	assert.Equal(t, "Invalid position: too small", SanitizeValidationError(err))

	err = shared.ValidateRequest(&FlipRequest{})
	assert.Equal(t, "Invalid position: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func newRecorder() (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/games", nil)
}
