package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistro/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.Validationf("bad input"), http.StatusBadRequest},
		{apperrors.NotFoundf("missing"), http.StatusNotFound},
		{apperrors.AlreadyExistsf("duplicate"), http.StatusConflict},
		{apperrors.UnitMismatchf("unit clash"), http.StatusConflict},
		{apperrors.InsufficientStockf("short"), http.StatusConflict},
		{apperrors.EmptyRecipef("no ingredients"), http.StatusUnprocessableEntity},
		{apperrors.Storage("db down", errors.New("refused")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, statusForError(tc.err), "error: %v", tc.err)
	}
}

func TestWriteAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppError(rec, apperrors.InsufficientStockf("not enough flour (need 600g, have 500g)"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not enough flour (need 600g, have 500g)"}`, rec.Body.String())
}
