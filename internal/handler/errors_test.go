package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/repository"
)

func TestHandleStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "unavailable",
			err:        &repository.StoreError{Kind: repository.KindUnavailable, Op: "item.list"},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Database connection error. Please try again later.",
		},
		{
			name:       "duplicate",
			err:        &repository.StoreError{Kind: repository.KindDuplicate, Op: "user.create"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Unique constraint failed while creating an item. Duplicate entry found.",
		},
		{
			name:       "not found",
			err:        &repository.StoreError{Kind: repository.KindNotFound, Op: "item.update"},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Record not found while creating an item.",
		},
		{
			name:       "other store error",
			err:        &repository.StoreError{Kind: repository.KindOther, Op: "item.list"},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Database error occurred while creating an item.",
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "An unexpected error occurred while creating an item.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, handleStoreError(c, tt.err, "creating an item"))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}
