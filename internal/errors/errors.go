package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrUserExists is returned when the email or username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no account matches the login email.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBookNotFound is returned when no book matches the given id.
	ErrBookNotFound = errors.New("book not found")
	// ErrNotOwner is returned when a user tries to delete a book they do not own.
	ErrNotOwner = errors.New("not authorized to delete this book")
	// ErrUploadFailed is returned when the media host rejects an upload.
	ErrUploadFailed = errors.New("image upload failed")
	// ErrMediaDeleteFailed is returned when the media host fails to delete an image.
	ErrMediaDeleteFailed = errors.New("error deleting image from media host")
)

// MapErrorToHTTP maps domain errors to echo HTTP errors. Echo's default error
// handler renders these as {"message": ...} bodies.
func MapErrorToHTTP(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrUserExists),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBookNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUploadFailed), errors.Is(err, ErrMediaDeleteFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
