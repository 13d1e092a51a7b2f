package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/repository"
)

// storeErrorBody is the uniform JSON shape for datastore failures.
type storeErrorBody struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

// handleStoreError translates a repository failure into an HTTP response.
// The mapping is exhaustive over repository.Kind; anything that is not a
// tagged store error is reported as unexpected. Every handler's failure
// path routes through here so no raw datastore error ever reaches a
// client.
//
// context is a short static label such as "creating an item".
func handleStoreError(c echo.Context, err error, context string) error {
	var se *repository.StoreError
	if errors.As(err, &se) {
		switch se.Kind {
		case repository.KindUnavailable:
			return c.JSON(http.StatusInternalServerError, storeErrorBody{
				Msg: "Database connection error. Please try again later.",
			})
		case repository.KindDuplicate:
			return c.JSON(http.StatusBadRequest, storeErrorBody{
				Msg: "Unique constraint failed while " + context + ". Duplicate entry found.",
			})
		case repository.KindNotFound:
			return c.JSON(http.StatusNotFound, storeErrorBody{
				Msg: "Record not found while " + context + ".",
			})
		default:
			return c.JSON(http.StatusInternalServerError, storeErrorBody{
				Msg: "Database error occurred while " + context + ".",
			})
		}
	}
	return c.JSON(http.StatusInternalServerError, storeErrorBody{
		Msg: "An unexpected error occurred while " + context + ".",
	})
}
